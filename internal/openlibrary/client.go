// Package openlibrary fetches search results from the Open Library API.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/bookledger/internal/cache"
	"github.com/lepinkainen/bookledger/internal/errors"
	"github.com/lepinkainen/bookledger/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://openlibrary.org"
	DefaultTimeout = 30 * time.Second
	searchPath     = "/search.json"
)

// Options configures a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond of 0 disables client-side rate limiting.
	RequestsPerSecond float64
	// Cache, when non-nil, serves repeated searches within CacheTTL.
	Cache    *cache.CacheDB
	CacheTTL time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// Client issues search requests against Open Library.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      *cache.CacheDB
	cacheTTL   time.Duration
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  opts.UserAgent,
		httpClient: httpClient,
		limiter:    ratelimit.New("OpenLibrary", opts.RequestsPerSecond),
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
	}
}

// searchResponse is the part of the search payload we read. Docs stay
// loosely typed; the normalizer owns field interpretation.
type searchResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []map[string]any `json:"docs"`
}

// Search runs one query and returns the raw docs, at most limit of them
// as decided by the server. Results are not paginated.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	if c.cache == nil {
		resp, err := c.fetch(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		return resp.Docs, nil
	}

	// An empty page is more likely an upstream hiccup than a real answer,
	// so it is never stored.
	resp, fromCache, err := cache.GetOrFetch(c.cache, cache.SearchTable, cacheKey(query, limit), c.cacheTTL,
		func() (searchResponse, error) { return c.fetch(ctx, query, limit) },
		func(r searchResponse) bool { return len(r.Docs) > 0 })
	if err != nil {
		return nil, err
	}
	if fromCache {
		slog.Info("Using cached search results", "query", query, "limit", limit, "docs", len(resp.Docs))
	}
	return resp.Docs, nil
}

func cacheKey(query string, limit int) string {
	return query + "|" + strconv.Itoa(limit)
}

// SearchURL builds the request URL for query and limit.
func (c *Client) SearchURL(query string, limit int) string {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	return c.baseURL + searchPath + "?" + params.Encode()
}

func (c *Client) fetch(ctx context.Context, query string, limit int) (searchResponse, error) {
	if !c.limiter.Allow() {
		slog.Debug("Waiting for rate limiter", "limiter", c.limiter.Name())
		if err := c.limiter.Wait(ctx); err != nil {
			return searchResponse{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.SearchURL(query, limit), nil)
	if err != nil {
		return searchResponse{}, fmt.Errorf("creating search request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("Fetching search results", "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return searchResponse{}, fmt.Errorf("OpenLibrary search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return searchResponse{}, errors.NewRateLimitErrorWithRetry(
			"OpenLibrary rate limit exceeded", parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return searchResponse{}, fmt.Errorf("OpenLibrary returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return searchResponse{}, fmt.Errorf("failed to decode OpenLibrary response: %w", err)
	}
	if result.Docs == nil {
		result.Docs = []map[string]any{}
	}

	slog.Debug("Search returned", "num_found", result.NumFound, "docs", len(result.Docs))
	return result, nil
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Anything else,
// including dates in the past, yields 0.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d.Round(time.Second)
		}
	}
	return 0
}
