// Package backendfake is a scriptable stand-in for the REST backend, used by
// tests across packages.
package backendfake

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

const apiPrefix = "/api"

// Recorded is one request as the backend received it.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	ContentType   string
	Body          []byte
}

// Backend routes "METHOD /path" (without the /api prefix) to handlers and
// records every request. Unrouted requests get a 404.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Recorded
}

// New starts a backend that is closed when the test ends.
func New(tb testing.TB) *Backend {
	tb.Helper()
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	tb.Cleanup(b.Server.Close)
	return b
}

// URL is the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.Server.URL + apiPrefix
}

func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

// Requests returns the recorded requests for method and path, in arrival order.
func (b *Backend) Requests(method, path string) []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Recorded
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (b *Backend) Count(method, path string) int {
	return len(b.Requests(method, path))
}

// All returns every recorded request.
func (b *Backend) All() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, apiPrefix)

	b.mu.Lock()
	b.requests = append(b.requests, Recorded{
		Method:        r.Method,
		Path:          path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		RequestID:     r.Header.Get("X-Request-ID"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	h, ok := b.routes[r.Method+" "+path]
	b.mu.Unlock()

	if !ok {
		JSON(http.StatusNotFound, map[string]string{"message": "Route not found"})(w, r)
		return
	}
	r.Body = io.NopCloser(strings.NewReader(string(body)))
	h(w, r)
}

// JSON responds with status and body encoded as JSON.
func JSON(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

// TokenExpired is the backend's expired-token response.
func TokenExpired() http.HandlerFunc {
	return JSON(http.StatusUnauthorized, map[string]string{"code": "TOKEN_EXPIRED", "message": "Token expired"})
}

// Bearer serves ok for requests carrying the valid token and the expired-token
// response otherwise.
func Bearer(valid string, ok http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer "+valid {
			ok(w, r)
			return
		}
		TokenExpired()(w, r)
	}
}

// Sequence serves the handlers in order, repeating the last one.
func Sequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	next := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := handlers[next]
		if next < len(handlers)-1 {
			next++
		}
		mu.Unlock()
		h(w, r)
	}
}
