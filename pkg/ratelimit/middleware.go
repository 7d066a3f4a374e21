package ratelimit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/docmill/docmill/pkg/api"
)

// MiddlewareOptions configures which checks apply to which routes.
type MiddlewareOptions struct {
	Logger *slog.Logger

	// Bypass lists paths that skip enforcement entirely (health, metrics).
	Bypass []string

	// UploadPaths marks paths whose request body is charged against the
	// upload and bandwidth quotas. The size is taken from Content-Length;
	// an unknown length is charged the one-unit minimum.
	UploadPaths []string

	// OperationPaths maps a path to the operation type charged against the
	// daily/hourly operation budget.
	OperationPaths map[string]string
}

// Middleware creates HTTP middleware that enforces the rate limits. The
// request-rate check runs on every non-bypassed request; upload and
// operation checks run on the routes named in opts. A denial is written as a
// 429 with the structured error payload and a Retry-After header, and the
// handler never runs. On allow, the resolved client id is injected into the
// request context.
func Middleware(l *Limiter, opts MiddlewareOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bypass := make(map[string]bool, len(opts.Bypass))
	for _, p := range opts.Bypass {
		bypass[p] = true
	}
	uploads := make(map[string]bool, len(opts.UploadPaths))
	for _, p := range opts.UploadPaths {
		uploads[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bypass[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			clientID := ClientID(r)

			chk := Check{OperationType: opts.OperationPaths[r.URL.Path]}
			if uploads[r.URL.Path] {
				chk.CheckUpload = true
				if r.ContentLength > 0 {
					chk.UploadBytes = r.ContentLength
				}
			}

			if err := l.Enforce(clientID, chk); err != nil {
				var v *Violation
				if !errors.As(err, &v) {
					// Enforce only ever returns violations; anything else
					// would be a programming error, surfaced as a 500.
					writeError(w, http.StatusInternalServerError,
						api.NewServerError("admission check failed"))
					return
				}

				logger.Warn("rate limit exceeded",
					"client_id", v.ClientID,
					"limit_type", string(v.Limit),
					"current", v.CurrentCount,
					"max", v.MaxAllowed,
					"reset_seconds", v.ResetSeconds,
					"path", r.URL.Path,
				)

				w.Header().Set("Retry-After", strconv.FormatInt(v.ResetSeconds, 10))
				writeError(w, http.StatusTooManyRequests,
					api.NewTooManyRequestsError(v.Message, string(v.Limit), v.ResetSeconds))
				return
			}

			next.ServeHTTP(w, r.WithContext(SetClientID(r.Context(), clientID)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, apiErr *api.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr})
}
