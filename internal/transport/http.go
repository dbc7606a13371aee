package transport

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Options configures the HTTP router.
type Options struct {
	// SessionTimeout closes idle MCP sessions. Zero keeps them until the
	// client disconnects.
	SessionTimeout time.Duration
	// Actors, when set, rejects requests naming an unknown or inactive actor.
	Actors ActorDirectory
	// Backend is reported by /health.
	Backend string
}

// NewServer creates an HTTP router serving the MCP streamable transport on
// /mcp and a liveness check on /health.
func NewServer(mcpServer *sdkmcp.Server, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: opts.SessionTimeout,
		},
	)

	r.Group(func(r chi.Router) {
		if opts.Actors != nil {
			r.Use(ActorMiddleware(opts.Actors))
		}
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	})
	r.Get("/health", healthHandler(opts.Backend))

	return r
}

func healthHandler(backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "backend": backend})
	}
}
