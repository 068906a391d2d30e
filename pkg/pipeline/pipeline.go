// Package pipeline provides the core query pipeline for tracevar.
//
// This package implements the complete fetch → layout → style pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: Retrieve and validate the lineage graph for a dataset/variable
//     query from the analysis service
//  2. Layout: Compute positions and edge routes for the graph
//  3. Style: Attach visual attributes derived from groups and confidences
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, fetcher, logger)
//	opts := pipeline.Options{
//	    Dataset:  "ADAE",
//	    Variable: "AESCAN",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	diagram := result.Nodes // styled, positioned nodes
//
// Run individual stages:
//
//	// Fetch only
//	vg, err := runner.Fetch(ctx, opts)
//
//	// Layout with an existing graph
//	res, err := runner.ComputeLayout(ctx, vg, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tracevar/tracevar/pkg/cache"
	"github.com/tracevar/tracevar/pkg/layout"
	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/styles"
)

// Options contains all configuration for the query pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Fetch options
	Dataset  string `json:"dataset"`
	Variable string `json:"variable"`
	Backend  string `json:"backend,omitempty"` // backend label for cache keying
	Refresh  bool   `json:"refresh,omitempty"`

	// Layout options. Zero fields fall back to the layout defaults.
	Layout layout.Options `json:"layout,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the validated lineage graph.
	Graph *lineage.ValidatedGraph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains positions and edge routes.
	Layout layout.Result

	// Nodes and Edges are the styled render-adapter inputs.
	Nodes []styles.StyledNode
	Edges []styles.StyledEdge

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	FetchTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FetchHit  bool // Whether the lineage graph came from cache
	LayoutHit bool // Whether the layout came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.validated = true
	return nil
}

// ValidateForFetch checks required fields for the fetch stage.
func (o *Options) ValidateForFetch() error {
	if o.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if o.Variable == "" {
		return fmt.Errorf("variable is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults fills unset layout fields with the package defaults.
func (o *Options) SetLayoutDefaults() {
	def := layout.DefaultOptions()
	if o.Layout.NodeWidth == 0 {
		o.Layout.NodeWidth = def.NodeWidth
	}
	if o.Layout.NodeHeight == 0 {
		o.Layout.NodeHeight = def.NodeHeight
	}
	if o.Layout.RankGap == 0 {
		o.Layout.RankGap = def.RankGap
	}
	if o.Layout.NodeGap == 0 {
		o.Layout.NodeGap = def.NodeGap
	}
	// Compaction fields default independently: a caller that set the
	// threshold keeps it, and an explicit zero threshold with a scale set
	// means compaction stays disabled.
	switch {
	case o.Layout.CompactThreshold == 0 && o.Layout.CompactScale == 0:
		o.Layout.CompactThreshold = def.CompactThreshold
		o.Layout.CompactScale = def.CompactScale
	case o.Layout.CompactScale == 0:
		o.Layout.CompactScale = def.CompactScale
	}
	if o.Layout.Sweeps == 0 {
		o.Layout.Sweeps = def.Sweeps
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LineageKeyOpts returns the cache key options for the fetch stage.
func (o *Options) LineageKeyOpts() cache.LineageKeyOpts {
	return cache.LineageKeyOpts{Backend: o.Backend}
}

// LayoutKeyOpts returns the cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		NodeWidth:        o.Layout.NodeWidth,
		NodeHeight:       o.Layout.NodeHeight,
		RankGap:          o.Layout.RankGap,
		NodeGap:          o.Layout.NodeGap,
		CompactThreshold: o.Layout.CompactThreshold,
		CompactScale:     o.Layout.CompactScale,
		Sweeps:           o.Layout.Sweeps,
	}
}
