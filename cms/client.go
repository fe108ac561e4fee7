package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/coocood/freecache"
	"github.com/goccy/go-json"

	"github.com/crestmont/site-api/config"
)

// Requester is the low-level transport to the headless CMS. The per-entity
// services below are built on it; tests swap in a mock.
// go generate: mockery --name Requester
type Requester interface {
	Get(ctx context.Context, path string, query url.Values) ([]byte, error)
	GetWithToken(ctx context.Context, path, token string, query url.Values) ([]byte, error)
	Post(ctx context.Context, path, token string, body interface{}) ([]byte, error)
	Put(ctx context.Context, path, token string, body interface{}) ([]byte, error)
	Delete(ctx context.Context, path, token string) error
}

// TraceFunc records the timing of one upstream CMS call; wired to the api
// package's request tracing in main
type TraceFunc func(ctx context.Context, method, path string, duration time.Duration, err error)

// ErrNotFound marks a lookup that came back empty
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx response from the CMS
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms returned status %d: %s", e.Code, e.Body)
}

// IsNotFound reports whether err is a CMS 404
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

// IsUnauthorized reports whether err is a CMS 401/403
func IsUnauthorized(err error) bool {
	se, ok := err.(*StatusError)
	return ok && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden)
}

type client struct {
	baseURL      string
	serviceToken string
	http         *http.Client
	cache        *freecache.Cache
	cacheTTL     time.Duration
	trace        TraceFunc
}

const cacheSizeBytes = 16 * 1024 * 1024

// NewClient builds the CMS transport from the project config. Unauthenticated
// GETs are cached for conf.CacheTTL to keep page loads off the CMS; anything
// carrying a user token bypasses the cache.
func NewClient(conf *config.Config, trace TraceFunc) Requester {
	return &client{
		baseURL:      conf.CMSBaseURL,
		serviceToken: conf.CMSToken,
		http:         &http.Client{Timeout: 15 * time.Second},
		cache:        freecache.NewCache(cacheSizeBytes),
		cacheTTL:     conf.CacheTTL,
		trace:        trace,
	}
}

func (c *client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	key := path
	if len(query) > 0 {
		key = path + "?" + query.Encode()
	}
	if c.cacheTTL > 0 {
		if cached, err := c.cache.Get([]byte(key)); err == nil {
			return cached, nil
		}
	}
	body, err := c.do(ctx, http.MethodGet, path, c.serviceToken, query, nil)
	if err != nil {
		return nil, err
	}
	if c.cacheTTL > 0 {
		_ = c.cache.Set([]byte(key), body, int(c.cacheTTL.Seconds()))
	}
	return body, nil
}

func (c *client) GetWithToken(ctx context.Context, path, token string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, token, query, nil)
}

func (c *client) Post(ctx context.Context, path, token string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, token, nil, body)
}

func (c *client) Put(ctx context.Context, path, token string, body interface{}) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, token, nil, body)
}

func (c *client) Delete(ctx context.Context, path, token string) error {
	_, err := c.do(ctx, http.MethodDelete, path, token, nil, nil)
	return err
}

func (c *client) do(ctx context.Context, method, path, token string, query url.Values, body interface{}) ([]byte, error) {
	start := time.Now()
	respBody, err := c.roundTrip(ctx, method, path, token, query, body)
	if c.trace != nil {
		c.trace(ctx, method, path, time.Since(start), err)
	}
	return respBody, err
}

func (c *client) roundTrip(ctx context.Context, method, path, token string, query url.Values, body interface{}) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u = u + "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(b)}
	}
	return b, nil
}

// InvalidateCache drops all cached GET responses. The scheduler calls this
// when the announcement fingerprint changes so the next page load sees the
// new content immediately.
func InvalidateCache(r Requester) {
	if c, ok := r.(*client); ok {
		c.cache.Clear()
	}
}
