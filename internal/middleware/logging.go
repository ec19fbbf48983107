package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/taskpilot/taskpilot/internal/logger"
	"go.uber.org/zap"
)

// Logging emits one http_request line per request with the method, sanitized
// path, status, and latency. It sits innermost in the chain so the recorded
// status is what the agent or task handler actually wrote, not what an outer
// wrapper (timeout, rate limit) replaced it with.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.Int("status_code", rec.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

// statusRecorder captures the status code written by the handler. Handlers
// that never call WriteHeader implicitly return 200.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
