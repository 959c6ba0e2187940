package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/topoview/pkg/errors"
	"github.com/matzehuels/topoview/pkg/observability"
)

// MaxBodySize caps a fetched body.
const MaxBodySize = 8 << 20

// Fetcher performs cached, retried GET requests.
type Fetcher struct {
	Client *http.Client
	Cache  *Cache // optional
	Policy Policy
}

// NewFetcher returns a Fetcher with a 15s client timeout and DefaultPolicy.
// cache may be nil.
func NewFetcher(cache *Cache) *Fetcher {
	return &Fetcher{
		Client: &http.Client{Timeout: 15 * time.Second},
		Cache:  cache,
		Policy: DefaultPolicy,
	}
}

// Get returns the body at rawURL, from the cache when fresh. If the
// request fails and a stale entry exists, the stale bytes are returned.
func (f *Fetcher) Get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := errors.ValidateURL(rawURL); err != nil {
		return nil, err
	}
	var stale []byte
	if f.Cache != nil {
		data, ok, err := f.Cache.Get(rawURL)
		if ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return data, nil
		}
		if err == ErrExpired {
			stale = data
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var body []byte
	err := Retry(ctx, f.Policy, func() error {
		var err error
		body, err = f.do(ctx, rawURL)
		return err
	})
	if err != nil {
		if stale != nil {
			return stale, nil
		}
		return nil, err
	}

	if f.Cache != nil {
		if err := f.Cache.Set(rawURL, body); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(body))
		}
	}
	return body, nil
}

func (f *Fetcher) do(ctx context.Context, rawURL string) ([]byte, error) {
	u, _ := url.Parse(rawURL)
	hooks := observability.HTTP()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "GET %s", rawURL)
		}
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "GET %s", rawURL))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return nil, Retryable(errors.New(errors.ErrCodeNetwork, "GET %s: %s", rawURL, resp.Status))
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New(errors.ErrCodeNotFound, "GET %s: %s", rawURL, resp.Status)
	case resp.StatusCode >= 400:
		return nil, errors.New(errors.ErrCodeNetwork, "GET %s: %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read %s", rawURL))
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", rawURL, MaxBodySize)
	}
	return body, nil
}
