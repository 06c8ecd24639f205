package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/sitegen/pkg/cache"
	"github.com/matzehuels/sitegen/pkg/observability"
)

const httpTimeout = 10 * time.Second

// Client provides cached HTTP access for every upstream source.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
	refresh bool
}

// NewClient creates a Client storing responses in c for ttl. Headers are
// applied to all requests made through this client; nil is fine.
func NewClient(c cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   c,
		ttl:     ttl,
		headers: headers,
	}
}

// WithRefresh returns a copy of the client that bypasses cached entries but
// still stores fresh responses.
func (c *Client) WithRefresh(refresh bool) *Client {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// Cached retrieves v from the cache or runs fetch (with retries) and caches
// the result. fetch must populate v.
func (c *Client) Cached(ctx context.Context, key string, v any, fetch func() error) error {
	hooks := observability.Cache()
	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, key)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, key)
	}
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetBytes performs an HTTP GET request and returns the raw body.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read %s: %v", cache.ErrNetwork, url, err))
	}
	return data, nil
}

// Text fetches url as plain text, cached under key.
func (c *Client) Text(ctx context.Context, key, url string) (string, error) {
	var text string
	err := c.Cached(ctx, key, &text, func() error {
		data, err := c.GetBytes(ctx, url)
		if err != nil {
			return err
		}
		text = string(data)
		return nil
	})
	return text, err
}

func (c *Client) doRequest(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode, url); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", cache.ErrNotFound, url)
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: %s: status %d", cache.ErrNetwork, url, code))
	default:
		return fmt.Errorf("%w: %s: status %d", cache.ErrNetwork, url, code)
	}
}
