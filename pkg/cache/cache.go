// Package cache provides caching for lineage queries and layout results.
//
// Cached data comes in two flavors: lineage graphs keyed by the query that
// produced them, and layout results keyed by a content hash of the graph
// they were computed from. The second keying means a layout survives cache
// eviction of its graph and is shared between identical graphs reached
// through different queries.
package cache

import (
	"context"
	"time"
)

// Default TTLs per data category. Lineage reflects a living analysis index
// and goes stale; a layout is a pure function of its graph and options, so
// it only expires to bound disk usage.
const (
	TTLLineage = 1 * time.Hour
	TTLLayout  = 7 * 24 * time.Hour
	TTLHTTP    = 15 * time.Minute
)

// Cache is a byte-oriented cache with per-entry TTL.
//
// Get returns (data, true, nil) on a hit, (nil, false, nil) on a miss, and
// a non-nil error only for infrastructure failures. An expired entry is a
// miss, not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LineageKeyOpts are the query parameters that affect a lineage response
// beyond dataset and variable.
type LineageKeyOpts struct {
	Backend string `json:"backend"` // analysis service base URL
}

// LayoutKeyOpts are the layout parameters that affect geometry. Two runs
// with equal graph hashes and equal opts produce identical layouts.
type LayoutKeyOpts struct {
	NodeWidth        float64 `json:"node_width"`
	NodeHeight       float64 `json:"node_height"`
	RankGap          float64 `json:"rank_gap"`
	NodeGap          float64 `json:"node_gap"`
	CompactThreshold int     `json:"compact_threshold"`
	CompactScale     float64 `json:"compact_scale"`
	Sweeps           int     `json:"sweeps"`
}

// Keyer generates cache keys for the different data categories.
type Keyer interface {
	// HTTPKey generates a key for raw HTTP response caching.
	HTTPKey(namespace, key string) string

	// LineageKey generates a key for a lineage query result.
	LineageKey(dataset, variable string, opts LineageKeyOpts) string

	// LayoutKey generates a key for a layout computed from the graph with
	// the given content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer generates hierarchical keys with hashed parameters.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
// Format: http:namespace:key
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// LineageKey generates a key for lineage query caching.
// Format: lineage:hash(dataset, variable, opts)
func (k *DefaultKeyer) LineageKey(dataset, variable string, opts LineageKeyOpts) string {
	return hashKey("lineage", dataset, variable, opts)
}

// LayoutKey generates a key for layout caching.
// Format: layout:hash(graphHash, opts)
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
