// Package httputil fetches remote resources, such as node icons, with a
// local byte cache and retries.
//
//   - [Cache] stores raw response bodies as files under
//     ~/.cache/topoview/http/, named by the SHA-256 of the key, with a
//     TTL based on modification time.
//   - [Retry] repeats an operation with exponential backoff while it
//     fails with a [RetryableError].
//   - [Fetcher] combines both: GET a URL, retry on network errors, 429
//     and 5xx responses, and cache successful bodies.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 7*24*time.Hour)
//	f := httputil.NewFetcher(cache.Namespace("icons:"))
//	data, err := f.Get(ctx, "https://example.net/icons/router.png")
package httputil
