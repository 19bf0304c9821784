// Package relay implements the CORS passthrough used for hosts that reject
// direct in-browser fetches. It is a pure byte passthrough, not a security
// boundary.
package relay

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Some upstreams reject Go's default client headers.
const upstreamUserAgent = "Mozilla/5.0 (compatible; media-relay/1.0)"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type server struct {
	upstream HTTPClient
}

// ServerOption configures the relay server.
type ServerOption func(*server)

// WithUpstreamClient sets the client used for upstream fetches.
func WithUpstreamClient(c HTTPClient) ServerOption {
	return func(s *server) { s.upstream = c }
}

// NewServer returns the relay handler: GET /relay?url=<escaped> streams the
// target's body back with its content-type, wrapped in permissive CORS.
func NewServer(opts ...ServerOption) http.Handler {
	s := &server{
		upstream: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(accessLogMiddleware)
	r.HandleFunc("/relay", s.handleRelay).Methods(http.MethodGet)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
	)(r)
}

func (s *server) handleRelay(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target, nil)
	if err != nil {
		http.Error(w, "invalid url parameter", http.StatusBadRequest)
		return
	}
	req.Header.Set("User-Agent", upstreamUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := s.upstream.Do(req)
	if err != nil {
		slog.Error("relay upstream fetch failed", "url", target, "err", err)
		http.Error(w, "error fetching the requested resource", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		slog.Error("relay stream interrupted", "url", target, "err", err)
	}
}

func accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
