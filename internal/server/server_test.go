package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/tracevar/tracevar/pkg/lineage"
	"github.com/tracevar/tracevar/pkg/pipeline"
	"github.com/tracevar/tracevar/pkg/search"
)

func testServer(t *testing.T, fetcher search.Fetcher) *Server {
	t.Helper()
	return New(Config{
		Runner: pipeline.NewRunner(nil, nil, fetcher, nil),
		Addr:   ":0",
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
	})
}

func goodFetcher() search.Fetcher {
	return search.FetcherFunc(func(context.Context, string, string) (*lineage.Graph, error) {
		return &lineage.Graph{
			Summary: "collected on the AE CRF",
			Nodes: []lineage.Node{
				{ID: "AE.AESCAN", Group: lineage.GroupSDTM},
				{ID: "ADAE.AESCAN", Group: lineage.GroupADaM},
			},
			Edges: []lineage.Edge{
				{From: "AE.AESCAN", To: "ADAE.AESCAN", Confidence: lineage.ConfidenceHigh},
			},
		}, nil
	})
}

func postLineage(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lineage", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleLineage(t *testing.T) {
	h := testServer(t, goodFetcher()).Handler()

	rec := postLineage(t, h, `{"dataset":"ADAE","variable":"AESCAN"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body)
	}

	var resp struct {
		Summary string `json:"summary"`
		Nodes   []struct {
			ID    string  `json:"id"`
			X     float64 `json:"x"`
			Width float64 `json:"width"`
			Style struct {
				Fill string `json:"fill"`
			} `json:"style"`
		} `json:"nodes"`
		Edges []struct {
			Points []struct{ X, Y float64 } `json:"points"`
			Style  struct {
				Stroke string `json:"stroke"`
			} `json:"style"`
		} `json:"edges"`
		GraphHash string `json:"graph_hash"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Nodes) != 2 || len(resp.Edges) != 1 {
		t.Fatalf("response = %d nodes, %d edges, want 2, 1", len(resp.Nodes), len(resp.Edges))
	}
	if resp.Nodes[0].Width == 0 || resp.Nodes[0].Style.Fill == "" {
		t.Errorf("node missing geometry or style: %+v", resp.Nodes[0])
	}
	if len(resp.Edges[0].Points) != 4 {
		t.Errorf("edge waypoints = %d, want 4", len(resp.Edges[0].Points))
	}
	if resp.GraphHash == "" {
		t.Error("graph_hash missing")
	}
	if resp.Summary == "" {
		t.Error("summary dropped")
	}

	if id := rec.Header().Get("X-Request-ID"); id == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestHandleLineageBadRequest(t *testing.T) {
	h := testServer(t, goodFetcher()).Handler()

	for _, body := range []string{`{`, `{}`, `{"dataset":"ADAE"}`} {
		if rec := postLineage(t, h, body); rec.Code != http.StatusBadRequest {
			t.Errorf("status for %q = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleLineageInvalidGraph(t *testing.T) {
	h := testServer(t, search.FetcherFunc(func(context.Context, string, string) (*lineage.Graph, error) {
		return &lineage.Graph{Nodes: []lineage.Node{{ID: "a"}, {ID: "a"}}}, nil
	})).Handler()

	rec := postLineage(t, h, `{"dataset":"ADAE","variable":"AESCAN"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestHandleLineageBackendDown(t *testing.T) {
	h := testServer(t, search.FetcherFunc(func(context.Context, string, string) (*lineage.Graph, error) {
		return nil, errors.New("connection refused")
	})).Handler()

	rec := postLineage(t, h, `{"dataset":"ADAE","variable":"AESCAN"}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error == "" {
		t.Error("error message missing from response")
	}
}

func TestHandleClassifyUnconfigured(t *testing.T) {
	h := testServer(t, goodFetcher()).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/classify", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := testServer(t, goodFetcher()).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
