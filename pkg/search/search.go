// Package search coordinates lineage queries against an analysis backend.
//
// The orchestrator is a small state machine: idle, loading, success, error.
// At most one request is in flight at a time; a query submitted while one is
// loading is dropped, and a response arriving after the orchestrator moved
// on (because Reset ran first) is discarded instead of clobbering newer
// state.
package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/observability"
)

// ErrEmptyQuery is returned by Search when the dataset or variable is blank.
var ErrEmptyQuery = errors.New("search: dataset and variable are required")

// Fetcher retrieves the lineage graph for one dataset/variable pair.
type Fetcher interface {
	Fetch(ctx context.Context, dataset, variable string) (*lineage.Graph, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, dataset, variable string) (*lineage.Graph, error)

func (f FetcherFunc) Fetch(ctx context.Context, dataset, variable string) (*lineage.Graph, error) {
	return f(ctx, dataset, variable)
}

// State is a snapshot of the orchestrator. Loading and Err are mutually
// exclusive; Graph is non-nil only after a successful query and is cleared
// by the next error.
type State struct {
	Dataset  string
	Variable string
	Loading  bool
	Graph    *lineage.ValidatedGraph
	Err      error
}

// Orchestrator owns the query lifecycle. The zero value is not usable; use
// [New]. All methods are safe for concurrent use.
type Orchestrator struct {
	fetcher Fetcher
	logger  *log.Logger

	mu       sync.Mutex
	state    State
	inFlight string // request ID of the pending query, "" when idle

	// notify, when set, runs after every state transition with a snapshot.
	// It is called without the lock held.
	notify func(State)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithNotify registers a callback invoked after each state transition.
func WithNotify(fn func(State)) Option {
	return func(o *Orchestrator) { o.notify = fn }
}

// New creates an orchestrator in the idle state.
func New(f Fetcher, opts ...Option) *Orchestrator {
	o := &Orchestrator{fetcher: f}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// State returns a snapshot of the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Search submits a query. It returns immediately; results arrive through
// State and the notify callback. Blank arguments fail fast with
// [ErrEmptyQuery]. A query submitted while another is loading is dropped,
// reported via the returned bool.
func (o *Orchestrator) Search(ctx context.Context, dataset, variable string) (accepted bool, err error) {
	dataset = strings.TrimSpace(dataset)
	variable = strings.TrimSpace(variable)
	if dataset == "" || variable == "" {
		return false, ErrEmptyQuery
	}

	o.mu.Lock()
	if o.inFlight != "" {
		o.mu.Unlock()
		o.logger.Debug("query dropped, another in flight", "dataset", dataset, "variable", variable)
		return false, nil
	}
	id := uuid.NewString()
	o.inFlight = id
	o.state = State{Dataset: dataset, Variable: variable, Loading: true}
	snapshot := o.state
	o.mu.Unlock()

	o.emit(snapshot)
	observability.Search().OnSearchStart(ctx, dataset, variable)
	o.logger.Info("query started", "dataset", dataset, "variable", variable, "request", id)

	go o.run(ctx, id, dataset, variable)
	return true, nil
}

// run executes the fetch and commits the outcome, unless the orchestrator
// moved on in the meantime.
func (o *Orchestrator) run(ctx context.Context, id, dataset, variable string) {
	start := time.Now()

	var (
		graph *lineage.ValidatedGraph
		err   error
	)
	defer func() {
		if r := recover(); r != nil {
			graph, err = nil, fmt.Errorf("search: fetch panicked: %v", r)
		}
		o.commit(ctx, id, dataset, variable, graph, err, time.Since(start))
	}()

	raw, ferr := o.fetcher.Fetch(ctx, dataset, variable)
	if ferr != nil {
		err = ferr
		return
	}
	graph, err = lineage.Validate(*raw)
	if err != nil {
		graph = nil
	}
}

// commit applies the outcome of request id. A stale id (Reset ran while the
// fetch was out) means the result is discarded.
func (o *Orchestrator) commit(ctx context.Context, id, dataset, variable string, graph *lineage.ValidatedGraph, err error, elapsed time.Duration) {
	o.mu.Lock()
	if o.inFlight != id {
		o.mu.Unlock()
		o.logger.Debug("stale response discarded", "dataset", dataset, "variable", variable, "request", id)
		observability.Search().OnSearchDiscard(ctx, dataset, variable)
		return
	}
	o.inFlight = ""
	if err != nil {
		o.state = State{Dataset: dataset, Variable: variable, Err: err}
	} else {
		o.state = State{Dataset: dataset, Variable: variable, Graph: graph}
	}
	snapshot := o.state
	o.mu.Unlock()

	o.emit(snapshot)
	if err != nil {
		observability.Search().OnSearchComplete(ctx, dataset, variable, 0, elapsed, err)
		o.logger.Error("query failed", "dataset", dataset, "variable", variable, "err", err)
		return
	}
	observability.Search().OnSearchComplete(ctx, dataset, variable, graph.NodeCount(), elapsed, nil)
	o.logger.Info("query completed",
		"dataset", dataset,
		"variable", variable,
		"nodes", graph.NodeCount(),
		"edges", graph.EdgeCount(),
		"duration", elapsed)
}

// Clear drops the current result and error but keeps the query fields and
// the loading flag, e.g. when the user dismisses a diagram. It is not a
// cancellation point: a pending fetch keeps its in-flight key and still
// commits when it returns. Only [Orchestrator.Reset] abandons a pending
// fetch.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	o.state.Graph = nil
	o.state.Err = nil
	snapshot := o.state
	o.mu.Unlock()
	o.emit(snapshot)
}

// Reset returns the orchestrator to its initial idle state.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.inFlight = ""
	o.state = State{}
	snapshot := o.state
	o.mu.Unlock()
	o.emit(snapshot)
}

func (o *Orchestrator) emit(s State) {
	if o.notify != nil {
		o.notify(s)
	}
}
