// Package lineageapi provides the client for the variable lineage endpoint
// of the analysis service.
package lineageapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tracevar/tracevar/pkg/integrations"
	"github.com/tracevar/tracevar/pkg/lineage"
)

// Client provides access to the lineage analysis API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a lineage API client for the service at baseURL.
//
// Parameters:
//   - baseURL: Analysis service base URL (e.g. "http://localhost:8000")
//   - cacheTTL: How long responses are cached (typical: 15 minutes to a few hours)
func NewClient(baseURL string, cacheTTL time.Duration) (*Client, error) {
	cache, err := integrations.NewCache(cacheTTL)
	if err != nil {
		return nil, err
	}
	return &Client{
		Client:  integrations.NewClient(cache.Namespace("lineage:"), nil),
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// request is the wire format the analysis service expects.
type request struct {
	Dataset  string `json:"dataset"`
	Variable string `json:"variable"`
}

// FetchLineage retrieves the lineage graph for one dataset/variable pair.
//
// Names are normalized to their canonical uppercase form before the request.
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - the graph on success (structural validity is the caller's concern)
//   - [integrations.ErrNotFound] if the variable is not in the analysis index
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchLineage(ctx context.Context, dataset, variable string, refresh bool) (*lineage.Graph, error) {
	dataset = integrations.NormalizeName(dataset)
	variable = integrations.NormalizeName(variable)
	key := dataset + "." + variable

	var g lineage.Graph
	err := c.Cached(ctx, key, refresh, &g, func() error {
		return c.PostJSON(ctx, c.baseURL+"/lineage", request{Dataset: dataset, Variable: variable}, &g)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch lineage for %s: %w", key, err)
	}
	return &g, nil
}

// Fetch implements the search orchestrator's fetcher contract, always going
// through the cache.
func (c *Client) Fetch(ctx context.Context, dataset, variable string) (*lineage.Graph, error) {
	return c.FetchLineage(ctx, dataset, variable, false)
}
