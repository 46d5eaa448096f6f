package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Koniverse/SubWallet-Mobile-sub003/internal/metrics"
)

// ServerOptions configures the HTTP server.
type ServerOptions struct {
	Port           string
	AdminAPIKey    string
	MetricsEnabled bool
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(opts ServerOptions, positions PositionService, reloader Reloader) *http.Server {
	handler := NewHandler(positions, reloader)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/positions", handler.ListPositions)
	mux.HandleFunc("GET /api/v1/positions/{slug}", handler.GetPosition)
	mux.HandleFunc("GET /api/v1/positions/{slug}/withdrawal", handler.GetWithdrawal)
	mux.HandleFunc("GET /api/v1/positions/{slug}/summary", handler.GetSummary)
	mux.HandleFunc("GET /api/v1/positions/{slug}/watch", handler.WatchPosition)

	reloadHandler := http.HandlerFunc(handler.ReloadSnapshot)
	if opts.AdminAPIKey != "" {
		mux.Handle("POST /api/v1/snapshot/reload", requireAuth(opts.AdminAPIKey, reloadHandler))
	} else {
		mux.Handle("POST /api/v1/snapshot/reload", reloadHandler)
	}

	var root http.Handler = mux
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
		root = metrics.Middleware(mux)
	}

	return &http.Server{
		Addr:         ":" + opts.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
