package kalshi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampFields are checked in order; the first parseable one wins.
var timestampFields = []string{"created_time", "created_ts", "ts", "timestamp"}

// Trade is one executed trade. Only the fields the daily aggregation needs are kept.
type Trade struct {
	Ticker     string
	Count      int64
	timestamps map[string]json.RawMessage
}

func (t *Trade) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*t = Trade{timestamps: make(map[string]json.RawMessage)}
	if raw, ok := fields["ticker"]; ok {
		_ = json.Unmarshal(raw, &t.Ticker)
	}
	if raw, ok := fields["count"]; ok {
		t.Count = parseCount(raw)
	}
	for _, name := range timestampFields {
		if raw, ok := fields[name]; ok {
			t.timestamps[name] = raw
		}
	}
	return nil
}

// NewTrade builds a trade with a created_time, mostly for tests and fixtures.
func NewTrade(ticker string, count int64, created time.Time) Trade {
	raw, _ := json.Marshal(created.UTC().Format(time.RFC3339))
	return Trade{
		Ticker:     ticker,
		Count:      count,
		timestamps: map[string]json.RawMessage{"created_time": raw},
	}
}

// Time returns the trade's unix time in seconds, or false when no field parses.
func (t Trade) Time() (int64, bool) {
	for _, name := range timestampFields {
		raw, ok := t.timestamps[name]
		if !ok || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if ts, err := ParseTimestamp(raw); err == nil {
			return ts, true
		}
	}
	return 0, false
}

func parseCount(raw json.RawMessage) int64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	if v, err := n.Int64(); err == nil {
		return v
	}
	if f, err := n.Float64(); err == nil {
		return int64(f)
	}
	return 0
}

// ParseTimestamp reads epoch seconds, epoch milliseconds (numbers above 1e12) or an
// ISO-8601 string. Strings without a zone are taken as UTC.
func ParseTimestamp(raw json.RawMessage) (int64, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return fromEpoch(string(n))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("unrecognized timestamp %s", string(raw))
	}
	s = strings.TrimSpace(s)
	if s != "" && strings.Trim(s, "0123456789") == "" {
		return fromEpoch(s)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999Z0700", "2006-01-02T15:04:05.999999999"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.Unix(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp format %q", s)
}

func fromEpoch(s string) (int64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f > 1e12 {
		return int64(f / 1000), nil
	}
	return int64(f), nil
}

// Market is the metadata needed to classify a ticker.
type Market struct {
	Ticker      string `json:"ticker"`
	Category    string `json:"category"`
	EventTicker string `json:"event_ticker"`
	// some payloads use camelCase
	EventTickerAlt string `json:"eventTicker"`
}

func (m Market) Event() string {
	if e := strings.TrimSpace(m.EventTicker); e != "" {
		return e
	}
	return strings.TrimSpace(m.EventTickerAlt)
}

type Event struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Category    string `json:"category"`
}

func (e Event) Key() string {
	if t := strings.TrimSpace(e.Ticker); t != "" {
		return t
	}
	return strings.TrimSpace(e.EventTicker)
}

type tradesPage struct {
	Trades []Trade `json:"trades"`
	Cursor string  `json:"cursor"`
}

type marketsPage struct {
	Markets []Market `json:"markets"`
}

type eventsPage struct {
	Events []Event `json:"events"`
}
