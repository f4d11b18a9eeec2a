package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder remembers the status code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logging wraps a handler and logs every request with its method, path,
// status code, account ID, and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start).Milliseconds()
		accountID := GetAccountID(r.Context()) // empty if pre-auth
		if rec.status >= http.StatusInternalServerError {
			slog.Error("request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"account_id", accountID,
				"duration_ms", duration,
			)
		} else if rec.status >= http.StatusBadRequest {
			slog.Warn("request error",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"account_id", accountID,
				"duration_ms", duration,
			)
		} else {
			slog.Info("request ok",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"account_id", accountID,
				"duration_ms", duration,
			)
		}
	})
}
