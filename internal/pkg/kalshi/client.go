// Package kalshi is a small client for the Kalshi trade API endpoints used by
// the daily volume job.
package kalshi

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/sportsvolume/dashboard/internal/pkg/config"
)

const (
	userAgent     = "KalshiDailyCron/1.0"
	tradePageSize = 1000
)

// ErrMaxRetries is returned when every attempt was rate limited.
var ErrMaxRetries = errors.New("max retries exceeded for API request")

// APIError is a non-success response from the API.
type APIError struct {
	Status int
	Path   string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kalshi %s returned %d: %s", e.Path, e.Status, e.Body)
}

type Client struct {
	BaseURL        string
	Signer         *Signer
	HTTPClient     *http.Client
	BatchSize      int
	BatchDelay     time.Duration
	PageDelay      time.Duration
	RetryBaseDelay time.Duration
	MaxRetries     int

	basePath string
}

// NewClient builds a client from the ingestion configuration, including the
// optional proxy and CA bundle.
func NewClient(cfg *config.IngestConfig) (*Client, error) {
	key, err := ParsePrivateKey(cfg.KalshiPrivateKey, cfg.KalshiKeyPassphrase)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_PROXY: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		log.Infof("[kalshi] using proxy %s", proxyURL.Host)
	}
	if cfg.CABundlePath != "" {
		pool, err := loadCABundle(cfg.CABundlePath)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	}

	c := New(cfg.KalshiHost, &Signer{KeyID: cfg.KalshiKeyID, Key: key})
	c.HTTPClient = &http.Client{Timeout: 60 * time.Second, Transport: transport}
	c.BatchSize = cfg.BatchSize
	c.BatchDelay = cfg.RequestDelay
	c.RetryBaseDelay = cfg.RetryBaseDelay
	c.MaxRetries = cfg.MaxRetries
	return c, nil
}

// New returns a client with the job's default pacing.
func New(baseURL string, signer *Signer) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	basePath := ""
	if u, err := url.Parse(baseURL); err == nil {
		basePath = strings.TrimRight(u.Path, "/")
	}
	return &Client{
		BaseURL:        baseURL,
		Signer:         signer,
		HTTPClient:     &http.Client{Timeout: 60 * time.Second},
		BatchSize:      20,
		BatchDelay:     time.Second,
		PageDelay:      100 * time.Millisecond,
		RetryBaseDelay: 2 * time.Second,
		MaxRetries:     5,
		basePath:       basePath,
	}
}

func loadCABundle(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("CA bundle %s has no certificates", path)
	}
	return pool, nil
}

// get performs a signed GET, backing off exponentially while rate limited.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		if c.Signer != nil {
			// the signature covers the full request path without the query
			headers, err := c.Signer.Headers(http.MethodGet, c.basePath+path)
			if err != nil {
				return err
			}
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			wait := c.RetryBaseDelay * time.Duration(1<<attempt)
			log.Warnf("[kalshi] rate limited (429), waiting %s before retry %d/%d", wait, attempt+1, c.MaxRetries)
			if err := sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &APIError{Status: resp.StatusCode, Path: path, Body: truncate(string(body), 512)}
		}
		return json.Unmarshal(body, out)
	}
	return ErrMaxRetries
}

// Trades pages through /markets/trades for [minTS, maxTS).
func (c *Client) Trades(ctx context.Context, minTS, maxTS int64) ([]Trade, error) {
	log.Infof("[kalshi] fetching trades in UTC span [%d, %d)", minTS, maxTS)

	var (
		trades []Trade
		cursor string
		page   int
	)
	for {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(tradePageSize))
		params.Set("min_ts", strconv.FormatInt(minTS, 10))
		params.Set("max_ts", strconv.FormatInt(maxTS, 10))
		if cursor != "" {
			params.Set("cursor", cursor)
		}

		var out tradesPage
		if err := c.get(ctx, "/markets/trades", params, &out); err != nil {
			return nil, err
		}
		trades = append(trades, out.Trades...)
		cursor = out.Cursor
		page++

		if page%100 == 0 {
			log.Infof("[kalshi] page %d: +%d trades (total: %d)", page, len(out.Trades), len(trades))
		}
		if cursor == "" {
			break
		}
		if err := sleep(ctx, c.PageDelay); err != nil {
			return nil, err
		}
	}

	log.Infof("[kalshi] total trades fetched: %d", len(trades))
	return trades, nil
}

// Markets looks up metadata for tickers in batches.
func (c *Client) Markets(ctx context.Context, tickers []string) (map[string]Market, error) {
	out := make(map[string]Market, len(tickers))
	err := c.batched(ctx, "markets", tickers, func(batch []string) error {
		params := url.Values{}
		params.Set("tickers", strings.Join(batch, ","))
		var page marketsPage
		if err := c.get(ctx, "/markets", params, &page); err != nil {
			return err
		}
		for _, m := range page.Markets {
			if m.Ticker != "" {
				m.Category = strings.TrimSpace(m.Category)
				out[m.Ticker] = m
			}
		}
		return nil
	})
	return out, err
}

// EventCategories maps event tickers to their category.
func (c *Client) EventCategories(ctx context.Context, eventTickers []string) (map[string]string, error) {
	out := make(map[string]string, len(eventTickers))
	err := c.batched(ctx, "events", eventTickers, func(batch []string) error {
		params := url.Values{}
		params.Set("event_tickers", strings.Join(batch, ","))
		var page eventsPage
		if err := c.get(ctx, "/events", params, &page); err != nil {
			return err
		}
		for _, e := range page.Events {
			if key := e.Key(); key != "" {
				out[key] = strings.TrimSpace(e.Category)
			}
		}
		return nil
	})
	return out, err
}

func (c *Client) batched(ctx context.Context, what string, items []string, fn func([]string) error) error {
	if len(items) == 0 {
		return nil
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	size := c.BatchSize
	if size <= 0 {
		size = 20
	}
	batches := (len(sorted) + size - 1) / size
	log.Infof("[kalshi] fetching %s for %d key(s) in %d batch(es)", what, len(sorted), batches)

	for i := 0; i < batches; i++ {
		end := (i + 1) * size
		if end > len(sorted) {
			end = len(sorted)
		}
		if err := fn(sorted[i*size : end]); err != nil {
			return err
		}
		if i < batches-1 {
			if err := sleep(ctx, c.BatchDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
