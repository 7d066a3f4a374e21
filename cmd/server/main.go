// Command server runs the docmill document gateway.
//
// Configuration is loaded from an optional YAML file plus environment
// variables:
//
//	DOCMILL_CONFIG                   - Config file path (default: ./config.yaml)
//	DOCMILL_PORT                     - Listen port (default: 8080)
//	DOCMILL_MAX_REQUESTS_PER_MINUTE  - Per-client request cap (default: 60)
//	DOCMILL_MAX_REQUESTS_PER_HOUR    - Per-client hourly cap (default: 1000)
//	DOCMILL_MAX_DAILY_OPERATIONS     - Per-client daily operation cap (default: 1200)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/docmill/docmill/pkg/config"
	"github.com/docmill/docmill/pkg/observability"
	"github.com/docmill/docmill/pkg/ratelimit"
	"github.com/docmill/docmill/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.Default()

	// Create the admission-control subsystem.
	limiter := ratelimit.New(ratelimit.Limits{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		MaxRequestsPerHour:   cfg.RateLimit.MaxRequestsPerHour,
		MaxDailyOperations:   cfg.RateLimit.MaxDailyOperations,
	}, logger)

	janitor := ratelimit.NewJanitor(limiter, cfg.RateLimit.CleanupInterval,
		cfg.RateLimit.MaxTrackedClients, logger)
	janitor.Start()
	defer janitor.Stop()

	// Build HTTP mux.
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/documents", processDocument)
	mux.HandleFunc("POST /v1/documents/upload", uploadDocument)
	mux.HandleFunc("GET /v1/ratelimit/stats", clientStats(limiter))
	mux.HandleFunc("GET /v1/ratelimit/stats/global", globalStats(limiter))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	bypass := []string{"/healthz", "/v1/ratelimit/stats", "/v1/ratelimit/stats/global"}
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
		bypass = append(bypass, cfg.Observability.Metrics.Path)
	}

	// Middleware chain, outermost first: request id, recovery, logging,
	// metrics, then admission control.
	enforce := ratelimit.Middleware(limiter, ratelimit.MiddlewareOptions{
		Logger:      logger,
		Bypass:      bypass,
		UploadPaths: []string{"/v1/documents/upload"},
		OperationPaths: map[string]string{
			"/v1/documents": "document_process",
		},
	})

	var handler http.Handler = mux
	handler = enforce(handler)
	handler = observability.MetricsMiddleware(handler)
	handler = transport.Logging(logger)(handler)
	handler = transport.Recovery(logger)(handler)
	handler = transport.RequestID()(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.Server.Port,
			"max_requests_per_minute", cfg.RateLimit.MaxRequestsPerMinute,
			"max_daily_operations", cfg.RateLimit.MaxDailyOperations,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// processDocument handles a logical document operation. The actual document
// processing is delegated to downstream workers; admission has already been
// enforced by the middleware when this handler runs.
func processDocument(w http.ResponseWriter, r *http.Request) {
	clientID := ratelimit.ClientIDFromContext(r.Context())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":    "accepted",
		"client_id": clientID,
	})
}

// uploadDocument accepts a document body. The upload and bandwidth quotas
// were charged by the middleware before the body is read.
func uploadDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":         "accepted",
		"received_bytes": r.ContentLength,
	})
}

// clientStats serves the per-client quota snapshot. The client defaults to
// the caller; operators can inspect another client with ?client=.
func clientStats(limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := r.URL.Query().Get("client")
		if clientID == "" {
			clientID = ratelimit.ClientID(r)
		}
		writeJSON(w, http.StatusOK, limiter.ClientStats(clientID))
	}
}

// globalStats serves the limiter-wide snapshot.
func globalStats(limiter *ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, limiter.GlobalStats())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
