package rowstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportsvolume/dashboard/app/models"
	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

func decodeDates(t *testing.T, rows []json.RawMessage) []string {
	t.Helper()
	dates := make([]string, 0, len(rows))
	for _, raw := range rows {
		var row models.DailyVolume
		require.NoError(t, json.Unmarshal(raw, &row))
		dates = append(dates, row.Date)
	}
	return dates
}

func TestRangeQuery(t *testing.T) {
	assert.Equal(t, "date=gte.2024-01-01&date=lte.2024-01-31&order=date.asc", RangeQuery("2024-01-01", "2024-01-31"))
	assert.Equal(t, "date=gte.a%26b&date=lte.c&order=date.asc", RangeQuery("a&b", "c"))
}

func TestRESTFetchRange(t *testing.T) {
	_, srv := newFakePostgREST(t, "anon", fixtureRows())
	store := NewREST(srv.URL+"/", "anon", "daily_volumes", time.Second)

	rows, err := store.FetchRange(context.Background(), "2024-03-02", "2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-02", "2024-03-03", "2024-03-04"}, decodeDates(t, rows))
}

func TestRESTFetchRangePassesRowsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"date":"2024-01-01","custom_field":"x","total_volume":1}]`))
	}))
	t.Cleanup(srv.Close)

	rows, err := NewREST(srv.URL, "k", "daily_volumes", time.Second).FetchRange(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.JSONEq(t, `{"date":"2024-01-01","custom_field":"x","total_volume":1}`, string(rows[0]))
}

func TestRESTFetchRangeEmptyIsNotNil(t *testing.T) {
	_, srv := newFakePostgREST(t, "anon", fixtureRows())
	rows, err := NewREST(srv.URL, "anon", "daily_volumes", time.Second).FetchRange(context.Background(), "2030-01-01", "2030-01-02")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRESTUpstreamErrorHidesKey(t *testing.T) {
	_, srv := newFakePostgREST(t, "anon", fixtureRows())

	_, err := NewREST(srv.URL, "secret-key", "daily_volumes", time.Second).FetchRange(context.Background(), "a", "b")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
	assert.Equal(t, "Invalid API key", upErr.Message)
	assert.NotContains(t, err.Error(), "secret-key")

	_, err = NewREST(srv.URL, "anon", "daily_volumes", time.Second).FetchRange(context.Background(), "bad", "2024-01-01")
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadRequest, upErr.Status)
	assert.Contains(t, upErr.Message, "invalid input syntax")
}

func TestRESTTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewREST(srv.URL, "k", "daily_volumes", 5*time.Second).FetchRange(ctx, "a", "b")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, 0, upErr.Status)
	assert.Equal(t, "upstream request timed out", upErr.Message)
}

func TestRESTUpsert(t *testing.T) {
	fake, srv := newFakePostgREST(t, "service", nil)
	writer := NewREST(srv.URL, "service", "daily_volumes", time.Second)

	require.NoError(t, writer.Upsert(context.Background(), nil))
	assert.EqualValues(t, 0, fake.calls.Load())

	require.NoError(t, writer.Upsert(context.Background(), fixtureRows()[:2]))
	assert.Len(t, fake.upserted, 2)
	assert.Contains(t, fake.prefer, "resolution=merge-duplicates")
}

func TestNewRequiresConfiguration(t *testing.T) {
	_, err := New(config.StoreConfig{Driver: config.DriverREST, URL: "https://x.supabase.co"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	store, err := New(config.StoreConfig{Driver: config.DriverREST, URL: "https://x.supabase.co", Key: "k", Table: "daily_volumes", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &REST{}, store)

	_, err = NewWriter(config.StoreConfig{Driver: config.DriverREST, URL: "https://x.supabase.co", Key: "anon"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
