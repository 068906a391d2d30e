package lineageapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tracevar/tracevar/pkg/integrations"
	"github.com/tracevar/tracevar/pkg/lineage"
)

func testClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("HOME", t.TempDir()) // keep the response cache out of the real home dir
	c, err := NewClient(url, time.Hour)
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestFetchLineage(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/lineage" {
			t.Errorf("path = %s, want /lineage", r.URL.Path)
		}
		var req struct {
			Dataset  string `json:"dataset"`
			Variable string `json:"variable"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Dataset != "ADAE" || req.Variable != "AESCAN" {
			t.Errorf("request = %+v, want normalized ADAE/AESCAN", req)
		}
		json.NewEncoder(w).Encode(lineage.Graph{
			Summary: "AESCAN originates on the AE CRF page",
			Nodes: []lineage.Node{
				{ID: "AE.AESCAN", Group: lineage.GroupSDTM},
				{ID: "ADAE.AESCAN", Group: lineage.GroupADaM},
			},
			Edges: []lineage.Edge{
				{From: "AE.AESCAN", To: "ADAE.AESCAN", Confidence: lineage.ConfidenceHigh},
			},
		})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	// Lowercase input is normalized before hitting the wire.
	g, err := client.FetchLineage(context.Background(), "adae", "aescan", false)
	if err != nil {
		t.Fatalf("FetchLineage() error: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("FetchLineage() = %d nodes, %d edges, want 2, 1", len(g.Nodes), len(g.Edges))
	}
	if g.Summary == "" {
		t.Error("FetchLineage() dropped the summary")
	}

	// Second call is served from cache.
	if _, err := client.Fetch(context.Background(), "ADAE", "AESCAN"); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
}

func TestFetchLineageNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.FetchLineage(context.Background(), "ADAE", "NOPE", false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("FetchLineage() on 404 = %v, want ErrNotFound", err)
	}
}

func TestFetchLineageRefreshBypassesCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(lineage.Graph{Nodes: []lineage.Node{{ID: "x"}}})
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	for i := 0; i < 2; i++ {
		if _, err := client.FetchLineage(context.Background(), "ADAE", "AESCAN", true); err != nil {
			t.Fatalf("FetchLineage(refresh) error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2 with refresh", got)
	}
}
