package integrations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tracevar/tracevar/pkg/httputil"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a dataset, variable, or document doesn't
	// exist in the analysis index.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for analysis
// service requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// NewCache creates a file-based cache with the given TTL in the default cache directory.
// See [httputil.NewCache] for details on cache location and behavior.
func NewCache(ttl time.Duration) (*httputil.Cache, error) {
	return httputil.NewCache("", ttl)
}

// NormalizeName converts a dataset or variable name to its canonical form:
// trimmed and uppercased, the way CDISC names are written in define.xml.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
