package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/turbobar/internal/ops"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// NewServer creates and configures the HTTP server for the turbobar JSON API.
func NewServer(env *ops.Env, version, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           NewHandler(env, version),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler returns the API routes wrapped with security headers.
func NewHandler(env *ops.Env, version string) http.Handler {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{env: env, version: version, logger: logger}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/ai/organize", h.HandleOrganize)
	mux.HandleFunc("POST /api/captures", h.HandleCreate)
	mux.HandleFunc("GET /api/captures", h.HandleList)
	mux.HandleFunc("GET /api/captures/{id}", h.HandleDetail)
	mux.HandleFunc("GET /api/collections/{id}/schema", h.HandleSchema)
	mux.HandleFunc("/api/", h.HandleNotFound)

	return securityHeaders(mux)
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM
// or when ctx is cancelled.
func Run(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("turbobar API running", "url", "http://"+srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
