package ingestion

import "regexp"

type sportPattern struct {
	sport string
	re    *regexp.Regexp
}

// wnba is checked before nba, which it contains.
var sportPatterns = []sportPattern{
	{"wnba", regexp.MustCompile(`(?i)wnba`)},
	{"nfl", regexp.MustCompile(`(?i)nfl`)},
	{"mlb", regexp.MustCompile(`(?i)mlb`)},
	{"nba", regexp.MustCompile(`(?i)nba`)},
	{"nhl", regexp.MustCompile(`(?i)nhl`)},
	{"soccer", regexp.MustCompile(`(?i)(laliga|bundesliga|ucl|epl|mls|ligue1|seriea|fifa)`)},
	{"golf", regexp.MustCompile(`(?i)pga`)},
	{"motorsport", regexp.MustCompile(`(?i)(f1|nascar)`)},
	{"tennis", regexp.MustCompile(`(?i)(atp|wta|mensingles|womensingles)`)},
	{"ncaam", regexp.MustCompile(`(?i)(kxmarmad|ncaam|ncaab)`)},
	{"ncaaw", regexp.MustCompile(`(?i)(kxwmarmad|ncaaw)`)},
	{"ncaaf", regexp.MustCompile(`(?i)ncaaf`)},
}

// ClassifySport returns the sport of a market, or "" when it is not a sports market.
// Fields are tried in order ticker, category, event ticker; the first field with a
// match decides.
func ClassifySport(ticker, category, eventTicker string) string {
	for _, field := range []string{ticker, category, eventTicker} {
		if field == "" {
			continue
		}
		for _, p := range sportPatterns {
			if p.re.MatchString(field) {
				return p.sport
			}
		}
	}
	return ""
}
