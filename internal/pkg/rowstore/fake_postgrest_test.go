package rowstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sportsvolume/dashboard/app/models"
)

// fakePostgREST serves a daily_volumes fixture, honouring date=gte./date=lte. and order=date.asc|desc.
type fakePostgREST struct {
	rows     []models.DailyVolume
	key      string
	calls    atomic.Int32
	upserted []models.DailyVolume
	prefer   string
}

func newFakePostgREST(t *testing.T, key string, rows []models.DailyVolume) (*fakePostgREST, *httptest.Server) {
	t.Helper()
	f := &fakePostgREST{rows: rows, key: key}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakePostgREST) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	w.Header().Set("Content-Type", "application/json")

	if r.Header.Get("apikey") != f.key || r.Header.Get("Authorization") != "Bearer "+f.key {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
		return
	}
	if r.URL.Path != "/rest/v1/daily_volumes" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"relation does not exist"}`))
		return
	}

	if r.Method == http.MethodPost {
		f.prefer = r.Header.Get("Prefer")
		var in []models.DailyVolume
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.upserted = append(f.upserted, in...)
		w.WriteHeader(http.StatusCreated)
		return
	}

	var lower, upper string
	for _, cond := range r.URL.Query()["date"] {
		op, value, _ := strings.Cut(cond, ".")
		switch op {
		case "gte":
			lower = value
		case "lte":
			upper = value
		}
	}
	if lower == "bad" || upper == "bad" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"22007","message":"invalid input syntax for type date: \"bad\""}`))
		return
	}

	out := []models.DailyVolume{}
	for _, row := range f.rows {
		if lower != "" && row.Date < lower {
			continue
		}
		if upper != "" && row.Date > upper {
			continue
		}
		out = append(out, row)
	}
	desc := r.URL.Query().Get("order") == "date.desc"
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Date > out[j].Date
		}
		return out[i].Date < out[j].Date
	})
	_ = json.NewEncoder(w).Encode(out)
}

func fixtureRows() []models.DailyVolume {
	return []models.DailyVolume{
		{Date: "2024-03-04", TotalVolume: 400, SportsVolume: 100, SportsPct: 25, NFLVolume: 100},
		{Date: "2024-03-01", TotalVolume: 100, SportsVolume: 50, SportsPct: 50, NBAVolume: 50},
		{Date: "2024-03-03", TotalVolume: 300, SportsVolume: 0, SportsPct: 0},
		{Date: "2024-03-02", TotalVolume: 200, SportsVolume: 20, SportsPct: 10, SoccerVolume: 20},
		{Date: "2024-03-05", TotalVolume: 500, SportsVolume: 5, SportsPct: 1, GolfVolume: 5},
	}
}
