// Package httputil provides HTTP utilities for analysis service clients.
//
// # Overview
//
// This package provides infrastructure used by the lineage and
// classification API clients:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/tracevar/)
// with configurable TTL. This speeds up repeated queries and reduces load
// on the analysis service.
//
// Usage:
//
//	cache, err := httputil.NewCache("", time.Hour)
//	var g lineage.Graph
//	if ok, _ := cache.Get("lineage:ADAE.AESCAN", &g); !ok {
//	    g = fetchFromAPI()
//	    cache.Set("lineage:ADAE.AESCAN", g) // Store for later
//	}
//
// Cache keys should be namespaced by endpoint to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//
// It uses exponential backoff to avoid hammering a struggling backend:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchOnce()
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/tracevar/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `tracevar cache clear` or by deleting
// the cache directory.
package httputil
