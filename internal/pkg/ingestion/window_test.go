package ingestion

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestWindowEndsYesterdayInLocalTime(t *testing.T) {
	loc := newYork(t)
	// 03:00 UTC is still the previous evening in New York
	w := NewWindow(time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC), loc, 7)

	assert.Equal(t, "2024-03-03", w.First.Format(dateLayout))
	assert.Equal(t, "2024-03-09", w.Last.Format(dateLayout))
	assert.Equal(t, []string{
		"2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06",
		"2024-03-07", "2024-03-08", "2024-03-09",
	}, w.Dates())
}

func TestWindowBoundsAcrossDST(t *testing.T) {
	loc := newYork(t)
	w := NewWindow(time.Date(2024, 3, 11, 12, 0, 0, 0, loc), loc, 7)

	start, end := w.Bounds()
	assert.Equal(t, time.Date(2024, 3, 4, 5, 0, 0, 0, time.UTC).Unix(), start)
	assert.Equal(t, time.Date(2024, 3, 11, 4, 0, 0, 0, time.UTC).Unix(), end)
	assert.EqualValues(t, 7*24*3600-3600, end-start)
}

func TestWindowDay(t *testing.T) {
	loc := newYork(t)
	w := NewWindow(time.Date(2024, 3, 11, 12, 0, 0, 0, loc), loc, 1)

	assert.Equal(t, []string{"2024-03-10"}, w.Dates())
	assert.Equal(t, "2024-03-09", w.Day(time.Date(2024, 3, 10, 4, 59, 0, 0, time.UTC).Unix()))
	assert.Equal(t, "2024-03-10", w.Day(time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC).Unix()))
}

func TestWindowMinimumOneDay(t *testing.T) {
	w := NewWindow(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), time.UTC, 0)
	assert.Equal(t, []string{"2024-03-01"}, w.Dates())
}
