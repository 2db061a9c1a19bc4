package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sportsvolume/dashboard/app/models"
)

const maxErrorBody = 1 << 16

// REST talks to a PostgREST endpoint (Supabase exposes one under /rest/v1).
type REST struct {
	BaseURL    string
	Key        string
	Table      string
	HTTPClient *http.Client
}

func NewREST(baseURL, key, table string, timeout time.Duration) *REST {
	return &REST{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		Table:   table,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RangeQuery builds the PostgREST query string for an inclusive, ascending date range.
func RangeQuery(start, end string) string {
	return "date=gte." + url.QueryEscape(start) +
		"&date=lte." + url.QueryEscape(end) +
		"&order=date.asc"
}

func (r *REST) tableURL() string {
	return r.BaseURL + "/rest/v1/" + url.PathEscape(r.Table)
}

func (r *REST) FetchRange(ctx context.Context, start, end string) ([]json.RawMessage, error) {
	endpoint := r.tableURL() + "?select=*&" + RangeQuery(start, end)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	r.authorize(req)
	req.Header.Set("Accept", "application/json")

	body, err := r.do(req)
	if err != nil {
		return nil, err
	}

	rows := []json.RawMessage{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{Message: "upstream returned an unreadable response"}
	}
	return rows, nil
}

func (r *REST) Upsert(ctx context.Context, rows []models.DailyVolume) error {
	if len(rows) == 0 {
		return nil
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tableURL()+"?on_conflict=date", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	r.authorize(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	_, err = r.do(req)
	return err
}

func (r *REST) authorize(req *http.Request) {
	req.Header.Set("apikey", r.Key)
	req.Header.Set("Authorization", "Bearer "+r.Key)
}

func (r *REST) do(req *http.Request) ([]byte, error) {
	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &UpstreamError{Status: resp.StatusCode, Message: upstreamMessage(body, resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	return body, nil
}

// transportError drops the request URL that net/http embeds in its errors.
func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &UpstreamError{Message: "upstream request timed out"}
	}
	return &UpstreamError{Message: fmt.Sprintf("upstream request failed: %v", err)}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// upstreamMessage extracts the PostgREST error message, falling back to the status text.
func upstreamMessage(body []byte, status int) string {
	var pgErr struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &pgErr); err == nil && pgErr.Message != "" {
		return pgErr.Message
	}
	return http.StatusText(status)
}
