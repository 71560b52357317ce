package bgg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vk/bggflow/internal/ctxlog"
	"github.com/vk/bggflow/internal/dataset"
)

const (
	// DefaultBaseURL is the public XML API v2 endpoint.
	DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"
	// DefaultBatchSize is how many thing IDs go into one request.
	DefaultBatchSize = 100
)

// Options tunes a Client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL      string
	BatchSize    int
	RequestDelay time.Duration // politeness delay between batch requests
	RetryDelay   time.Duration // base backoff after a 202 or 429
	MaxRetries   int           // attempts per batch before giving up
	UserAgent    string
}

// Client fetches board game records over the BGG XML API.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient wraps an injected *http.Client. The HTTP client is shared
// infrastructure owned by the caller; Client never closes it.
func NewClient(httpClient *http.Client, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = 2 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "bggflow"
	}
	return &Client{httpClient: httpClient, opts: opts}
}

// FetchRange fetches every thing ID in [from, to] inclusive. IDs the API
// does not know are silently absent from the result.
func (c *Client) FetchRange(ctx context.Context, from, to int) (dataset.Table, error) {
	if from <= 0 || to < from {
		return nil, fmt.Errorf("invalid ID range %d..%d", from, to)
	}
	ids := make([]int, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return c.FetchIDs(ctx, ids)
}

// FetchIDs fetches the given thing IDs in batches, pausing between requests.
func (c *Client) FetchIDs(ctx context.Context, ids []int) (dataset.Table, error) {
	logger := ctxlog.FromContext(ctx)

	var table dataset.Table
	for start := 0; start < len(ids); start += c.opts.BatchSize {
		end := start + c.opts.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		if start > 0 {
			if err := sleepCtx(ctx, c.opts.RequestDelay); err != nil {
				return nil, err
			}
		}

		games, err := c.fetchBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch IDs %d..%d: %w", batch[0], batch[len(batch)-1], err)
		}
		logger.Debug("Fetched batch.", "ids", len(batch), "games", len(games))
		table = append(table, games...)
	}
	return table, nil
}

// fetchBatch issues one /thing request, retrying while the API answers 202
// (result still being prepared) or 429 (throttled).
func (c *Client) fetchBatch(ctx context.Context, ids []int) ([]dataset.Game, error) {
	logger := ctxlog.FromContext(ctx)
	reqURL := c.thingURL(ids)

	for attempt := 1; ; attempt++ {
		body, retryAfter, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return parseThings(body)
		}
		if attempt >= c.opts.MaxRetries {
			return nil, fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}

		delay := retryAfter
		if delay <= 0 {
			// linear backoff keeps total wait bounded for a weekly batch job
			delay = c.opts.RetryDelay * time.Duration(attempt)
		}
		logger.Debug("Batch not ready, backing off.", "attempt", attempt, "delay", delay, "reason", err)
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}
}

var errQueued = fmt.Errorf("request queued by server")

// doRequest performs a single GET. A non-nil retryAfter carries the server's
// Retry-After hint when one was sent.
func (c *Client) doRequest(ctx context.Context, reqURL string) (body []byte, retryAfter time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, 0, nil
	case http.StatusAccepted:
		return nil, 0, errQueued
	case http.StatusTooManyRequests:
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), fmt.Errorf("throttled by server")
	default:
		return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}
}

func (c *Client) thingURL(ids []int) string {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.Itoa(id)
	}
	q := url.Values{}
	q.Set("id", strings.Join(strIDs, ","))
	q.Set("stats", "1")
	return c.opts.BaseURL + "/thing?" + q.Encode()
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
