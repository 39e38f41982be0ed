// Package httpd adapts a serve.Resolver to net/http.
//
// The handler is the dispatcher the resolver expects around it: it owns
// request logging and the response wire format, while resolution itself
// stays a pure function of (root, path). Each inbound request runs on its
// own goroutine courtesy of net/http; the handler keeps no per-request
// state and needs no locking.
package httpd

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/meigma/serve"
)

// Handler dispatches incoming requests to a Resolver and writes the outcome.
type Handler struct {
	resolver *serve.Resolver
	logger   *slog.Logger
	access   bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for access and fault logging.
// If nil, logs are discarded (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithAccessLog controls per-request access logging. Fault logging is not
// affected. Enabled by default.
func WithAccessLog(enabled bool) Option {
	return func(h *Handler) {
		h.access = enabled
	}
}

// NewHandler creates an http.Handler serving the resolver's root.
func NewHandler(resolver *serve.Resolver, opts ...Option) *Handler {
	h := &Handler{
		resolver: resolver,
		logger:   slog.New(slog.DiscardHandler),
		access:   true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP resolves the request path and writes the outcome.
//
// r.URL.Path arrives URL-decoded with the query string already stripped,
// which is exactly the form the resolver expects. The access log line is
// written before resolution begins, so even a faulting request leaves a
// trace.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.access {
		h.logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "405 method not allowed", http.StatusMethodNotAllowed)
		return
	}

	outcome := h.resolver.Resolve(r.URL.Path)
	if outcome.Kind == serve.KindFault {
		// Full detail for operators; the client body stays generic.
		h.logger.Error("resolution fault",
			slog.String("path", r.URL.Path),
			slog.Any("error", outcome.Err),
		)
	}

	w.Header().Set("Content-Type", outcome.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(outcome.Body)))
	w.WriteHeader(outcome.Status())
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(outcome.Body)
}

// Interface compliance.
var _ http.Handler = (*Handler)(nil)
