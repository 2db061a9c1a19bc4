package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsvolume/dashboard/internal/pkg/kalshi"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC)
}

func fixtureTrades(t *testing.T) []kalshi.Trade {
	t.Helper()
	var undated kalshi.Trade
	require.NoError(t, json.Unmarshal([]byte(`{"ticker":"KXNFLGAME-A","count":99}`), &undated))

	return []kalshi.Trade{
		kalshi.NewTrade("KXNFLGAME-A", 10, at(1, 10)),
		kalshi.NewTrade("KXPRES-1", 30, at(1, 11)),
		kalshi.NewTrade("KXWNBA-1", 1, at(2, 9)),
		kalshi.NewTrade("KXMYSTERY-1", 2, at(2, 12)),
		kalshi.NewTrade("KXOTHER-1", 3, at(2, 23)),
		undated,
	}
}

func fixtureMarkets() map[string]kalshi.Market {
	return map[string]kalshi.Market{
		"KXNFLGAME-A": {Ticker: "KXNFLGAME-A", Category: "Sports", EventTicker: "KXNFLGAME"},
		"KXPRES-1":    {Ticker: "KXPRES-1", Category: "Politics", EventTicker: "KXPRES"},
		"KXWNBA-1":    {Ticker: "KXWNBA-1", EventTickerAlt: "KXWNBA"},
		"KXMYSTERY-1": {Ticker: "KXMYSTERY-1", EventTicker: "KXATPMATCH-E"},
		"KXOTHER-1":   {Ticker: "KXOTHER-1"},
	}
}

func TestEventsToResolve(t *testing.T) {
	assert.Equal(t, []string{"KXATPMATCH-E", "KXWNBA"}, EventsToResolve(fixtureMarkets()))
}

func TestResolveCategories(t *testing.T) {
	got := ResolveCategories(fixtureMarkets(), map[string]string{"KXWNBA": " Sports "})

	assert.Equal(t, Classification{Category: "Sports", Source: SourceMarket, Event: "KXNFLGAME"}, got["KXNFLGAME-A"])
	assert.Equal(t, Classification{Category: "Sports", Source: SourceEvent, Event: "KXWNBA"}, got["KXWNBA-1"])
	assert.Equal(t, Classification{Source: SourceNone, Event: "KXATPMATCH-E"}, got["KXMYSTERY-1"])
	assert.Equal(t, Classification{Source: SourceNone}, got["KXOTHER-1"])
}

func TestBucketAndRows(t *testing.T) {
	w := NewWindow(at(4, 12), time.UTC, 3)
	b := BucketTrades(w, fixtureTrades(t))

	assert.Equal(t, []string{"KXMYSTERY-1", "KXNFLGAME-A", "KXOTHER-1", "KXPRES-1", "KXWNBA-1"}, b.Tickers)

	rows := b.Rows(ResolveCategories(fixtureMarkets(), nil))
	require.Len(t, rows, 3)

	day1 := rows[0]
	assert.Equal(t, "2024-03-01", day1.Date)
	assert.EqualValues(t, 40, day1.TotalVolume)
	assert.EqualValues(t, 10, day1.SportsVolume)
	assert.EqualValues(t, 10, day1.NFLVolume)
	assert.Equal(t, 25.0, day1.SportsPct)

	day2 := rows[1]
	assert.Equal(t, "2024-03-02", day2.Date)
	assert.EqualValues(t, 6, day2.TotalVolume)
	assert.EqualValues(t, 3, day2.SportsVolume)
	assert.EqualValues(t, 1, day2.WNBAVolume)
	assert.EqualValues(t, 2, day2.TennisVolume)
	assert.Equal(t, 50.0, day2.SportsPct)

	day3 := rows[2]
	assert.Equal(t, "2024-03-03", day3.Date)
	assert.Zero(t, day3.TotalVolume)
	assert.Zero(t, day3.SportsPct)
}

func TestSportsPct(t *testing.T) {
	assert.Equal(t, 33.3333, SportsPct(1, 3))
	assert.Equal(t, 66.6667, SportsPct(2, 3))
	assert.Equal(t, 100.0, SportsPct(5, 5))
	assert.Equal(t, 0.0, SportsPct(0, 0))
}
