package ingestion

import (
	"math"
	"sort"
	"strings"

	"github.com/sportsvolume/dashboard/app/models"
	"github.com/sportsvolume/dashboard/internal/pkg/kalshi"
)

const (
	SourceMarket = "market"
	SourceEvent  = "event"
	SourceNone   = "none"
)

// Classification is the category a ticker was resolved to and where it came from.
type Classification struct {
	Category string
	Source   string
	Event    string
}

// EventsToResolve lists the event tickers of markets without their own category.
func EventsToResolve(markets map[string]kalshi.Market) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range markets {
		evt := m.Event()
		if strings.TrimSpace(m.Category) != "" || evt == "" || seen[evt] {
			continue
		}
		seen[evt] = true
		out = append(out, evt)
	}
	sort.Strings(out)
	return out
}

// ResolveCategories picks the market category, then the event category, then none.
func ResolveCategories(markets map[string]kalshi.Market, eventCategories map[string]string) map[string]Classification {
	out := make(map[string]Classification, len(markets))
	for ticker, m := range markets {
		evt := m.Event()
		if cat := strings.TrimSpace(m.Category); cat != "" {
			out[ticker] = Classification{Category: cat, Source: SourceMarket, Event: evt}
			continue
		}
		if cat := strings.TrimSpace(eventCategories[evt]); evt != "" && cat != "" {
			out[ticker] = Classification{Category: cat, Source: SourceEvent, Event: evt}
			continue
		}
		out[ticker] = Classification{Source: SourceNone, Event: evt}
	}
	return out
}

// Bucket holds the per-day quantities before classification.
type Bucket struct {
	Total     map[string]int64
	PerTicker map[string]map[string]int64
	Tickers   []string
}

// BucketTrades groups trade quantities by local day and ticker. Trades without a
// parseable timestamp are dropped. Every day of the window is present.
func BucketTrades(w Window, trades []kalshi.Trade) Bucket {
	b := Bucket{Total: map[string]int64{}, PerTicker: map[string]map[string]int64{}}
	seen := map[string]bool{}

	for _, t := range trades {
		ts, ok := t.Time()
		if !ok {
			continue
		}
		day := w.Day(ts)
		b.Total[day] += t.Count

		if t.Ticker == "" {
			continue
		}
		if !seen[t.Ticker] {
			seen[t.Ticker] = true
			b.Tickers = append(b.Tickers, t.Ticker)
		}
		perDay, ok := b.PerTicker[day]
		if !ok {
			perDay = map[string]int64{}
			b.PerTicker[day] = perDay
		}
		perDay[t.Ticker] += t.Count
	}

	for _, day := range w.Dates() {
		if _, ok := b.Total[day]; !ok {
			b.Total[day] = 0
		}
	}
	sort.Strings(b.Tickers)
	return b
}

// Rows turns the buckets into one row per day, sorted by date.
func (b Bucket) Rows(categories map[string]Classification) []models.DailyVolume {
	days := make([]string, 0, len(b.Total))
	for day := range b.Total {
		days = append(days, day)
	}
	sort.Strings(days)

	rows := make([]models.DailyVolume, 0, len(days))
	for _, day := range days {
		row := models.DailyVolume{Date: day, TotalVolume: b.Total[day]}
		for ticker, q := range b.PerTicker[day] {
			c := categories[ticker]
			sport := ClassifySport(ticker, c.Category, c.Event)
			if sport == "" {
				continue
			}
			row.AddSport(sport, q)
			row.SportsVolume += q
		}
		row.SportsPct = SportsPct(row.SportsVolume, row.TotalVolume)
		rows = append(rows, row)
	}
	return rows
}

// SportsPct is sports/total as a percentage rounded to 4 decimals, 0 for an empty day.
func SportsPct(sports, total int64) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(sports) / float64(total) * 100
	return math.Round(pct*1e4) / 1e4
}
