package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tracevar/tracevar/pkg/httputil"
)

func testCache(t *testing.T) *httputil.Cache {
	t.Helper()
	c, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache error: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(testCache(t), headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestClientGetJSON(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	var resp response
	if err := client.GetJSON(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("GetJSON() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("GetJSON() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(map[string]string{"echo": req["name"]})
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	var resp map[string]string
	err := client.PostJSON(context.Background(), server.URL, map[string]string{"name": "ADAE"}, &resp)
	if err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if resp["echo"] != "ADAE" {
		t.Errorf("PostJSON() echo = %q, want ADAE", resp["echo"])
	}
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	var resp map[string]string
	err := client.GetJSON(context.Background(), server.URL, &resp)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON() on 404 = %v, want ErrNotFound", err)
	}
}

func TestClientServerErrorRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	var resp map[string]string
	err := client.GetJSON(context.Background(), server.URL, &resp)
	if err == nil {
		t.Fatal("GetJSON() on 500 should fail")
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetJSON() on 500 = %v, want ErrNetwork", err)
	}
	var re *httputil.RetryableError
	if !errors.As(err, &re) {
		t.Error("5xx error should be retryable")
	}
}

func TestClientCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"v": "1"})
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	fetch := func(v *map[string]string) error {
		return client.Cached(context.Background(), "key", false, v, func() error {
			return client.GetJSON(context.Background(), server.URL, v)
		})
	}

	var first, second map[string]string
	if err := fetch(&first); err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if err := fetch(&second); err != nil {
		t.Fatalf("Cached() second error: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("backend calls = %d, want 1 (second read from cache)", got)
	}
	if second["v"] != "1" {
		t.Errorf("cached value = %q, want 1", second["v"])
	}
}

func TestClientCachedRefresh(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(map[string]string{"v": "1"})
	}))
	defer server.Close()

	client := NewClient(testCache(t), nil)
	client.http = server.Client()

	for i := 0; i < 2; i++ {
		var v map[string]string
		err := client.Cached(context.Background(), "key", true, &v, func() error {
			return client.GetJSON(context.Background(), server.URL, &v)
		})
		if err != nil {
			t.Fatalf("Cached(refresh) error: %v", err)
		}
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("backend calls = %d, want 2 with refresh", got)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"adae", "ADAE"},
		{"  AeScan ", "AESCAN"},
		{"ADSL", "ADSL"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckStatus(t *testing.T) {
	if err := checkStatus(http.StatusOK); err != nil {
		t.Errorf("checkStatus(200) = %v, want nil", err)
	}
	if err := checkStatus(http.StatusNotFound); !errors.Is(err, ErrNotFound) {
		t.Errorf("checkStatus(404) = %v, want ErrNotFound", err)
	}
	if err := checkStatus(http.StatusForbidden); !errors.Is(err, ErrNetwork) {
		t.Errorf("checkStatus(403) = %v, want ErrNetwork", err)
	}
}
