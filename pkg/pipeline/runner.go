package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tracevar/tracevar/pkg/cache"
	"github.com/tracevar/tracevar/pkg/layout"
	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/observability"
	"github.com/tracevar/tracevar/pkg/search"
	"github.com/tracevar/tracevar/pkg/styles"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, fetcher, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher search.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache, keyer, and fetcher.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, fetcher search.Fetcher, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: fetcher,
		Logger:  logger,
	}
}

// Execute runs the complete fetch → layout → style pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Fetch
	fetchStart := time.Now()
	vg, fetchHit, err := r.FetchWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	result.Graph = vg
	result.Stats.FetchTime = time.Since(fetchStart)
	result.Stats.NodeCount = vg.NodeCount()
	result.Stats.EdgeCount = vg.EdgeCount()
	result.CacheInfo.FetchHit = fetchHit

	// Content hash for the layout cache key and API responses
	if data, err := lineage.MarshalGraph(vg.Graph); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("fetched lineage",
		"dataset", opts.Dataset,
		"variable", opts.Variable,
		"nodes", vg.NodeCount(),
		"edges", vg.EdgeCount(),
		"duration", result.Stats.FetchTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, vg, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	if res.FlippedEdges > 0 {
		r.Logger.Warn("lineage contains cycles",
			"flipped_edges", res.FlippedEdges)
	}
	r.Logger.Info("computed layout",
		"ranks", rankCount(res),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Style (pure, never cached)
	result.Nodes, result.Edges = styles.Apply(res)

	return result, nil
}

// FetchWithCacheInfo retrieves and validates a lineage graph with caching
// and returns cache hit info.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, opts Options) (*lineage.ValidatedGraph, bool, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LineageKey(opts.Dataset, opts.Variable, opts.LineageKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "lineage")
			if g, err := lineage.UnmarshalGraph(data); err == nil {
				if vg, err := lineage.Validate(g); err == nil {
					return vg, true, nil // Cache hit
				}
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "lineage")
		}
	}

	observability.Pipeline().OnFetchStart(ctx, opts.Dataset, opts.Variable)
	start := time.Now()
	g, err := r.Fetcher.Fetch(ctx, opts.Dataset, opts.Variable)
	if err != nil {
		observability.Pipeline().OnFetchComplete(ctx, opts.Dataset, opts.Variable, 0, time.Since(start), err)
		return nil, false, err
	}

	vg, err := lineage.Validate(*g)
	observability.Pipeline().OnFetchComplete(ctx, opts.Dataset, opts.Variable, len(g.Nodes), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the validated graph
	if data, err := lineage.MarshalGraph(vg.Graph); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLineage)
		observability.Cache().OnCacheSet(ctx, "lineage", len(data))
	}

	return vg, false, nil // Cache miss
}

// Fetch is a convenience wrapper that calls FetchWithCacheInfo and discards the cache hit info.
func (r *Runner) Fetch(ctx context.Context, opts Options) (*lineage.ValidatedGraph, error) {
	vg, _, err := r.FetchWithCacheInfo(ctx, opts)
	return vg, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. graphHash keys the cache; pass "" to skip caching for
// this call.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, vg *lineage.ValidatedGraph, graphHash string, opts Options) (layout.Result, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	var cacheKey string
	if graphHash != "" {
		cacheKey = r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Pipeline().OnLayoutStart(ctx, vg.NodeCount())
	start := time.Now()
	res := layout.Build(vg, opts.Layout)
	observability.Pipeline().OnLayoutComplete(ctx, res.FlippedEdges, time.Since(start), nil)

	if cacheKey != "" {
		if data, err := json.Marshal(res); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return res, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, vg *lineage.ValidatedGraph, opts Options) (layout.Result, error) {
	var graphHash string
	if data, err := lineage.MarshalGraph(vg.Graph); err == nil {
		graphHash = cache.Hash(data)
	}
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, vg, graphHash, opts)
	return res, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func rankCount(res layout.Result) int {
	max := -1
	for _, n := range res.Nodes {
		if n.Rank > max {
			max = n.Rank
		}
	}
	return max + 1
}
