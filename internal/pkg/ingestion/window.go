package ingestion

import "time"

const dateLayout = "2006-01-02"

// Window is a run of whole local days. First and Last are local midnights.
type Window struct {
	First    time.Time
	Last     time.Time
	Location *time.Location
}

// NewWindow returns the days local days ending yesterday, relative to now in loc.
func NewWindow(now time.Time, loc *time.Location, days int) Window {
	if days < 1 {
		days = 1
	}
	local := now.In(loc)
	last := time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, loc)
	first := time.Date(last.Year(), last.Month(), last.Day()-(days-1), 0, 0, 0, 0, loc)
	return Window{First: first, Last: last, Location: loc}
}

// Bounds is the UTC unix span [start of first day, start of the day after last).
func (w Window) Bounds() (int64, int64) {
	end := time.Date(w.Last.Year(), w.Last.Month(), w.Last.Day()+1, 0, 0, 0, 0, w.Location)
	return w.First.Unix(), end.Unix()
}

// Dates lists every day of the window as YYYY-MM-DD, oldest first.
func (w Window) Dates() []string {
	var out []string
	for d := w.First; !d.After(w.Last); d = time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, w.Location) {
		out = append(out, d.Format(dateLayout))
	}
	return out
}

// Day is the local calendar day of a unix timestamp.
func (w Window) Day(ts int64) string {
	return time.Unix(ts, 0).In(w.Location).Format(dateLayout)
}
