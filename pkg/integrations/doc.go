// Package integrations provides HTTP clients for the analysis service APIs.
//
// # Overview
//
// This package contains low-level API clients for the backends tracevar
// talks to. Each endpoint family has its own subpackage:
//
//   - [lineageapi]: variable lineage queries
//   - [classify]: document classification
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client, err := lineageapi.NewClient("http://localhost:8000", time.Hour)
//	graph, err := client.FetchLineage(ctx, "ADAE", "AESCAN", false) // false = use cache
//
// Clients handle:
//   - HTTP requests with retry
//   - Response caching (file-based, configurable TTL)
//   - API-specific parsing and normalization
//
// # Shared Infrastructure
//
// The [Client] type provides shared HTTP functionality used by both
// clients, including HTTP response caching via [httputil.Cache].
package integrations
