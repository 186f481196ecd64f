package middleware

import (
	"net/http"
	"time"

	"github.com/taskmaster/taskmaster-api/internal/api/shared"
	"github.com/taskmaster/taskmaster-api/internal/platform/logger"
)

// TraceMiddleware assigns a trace ID to each request and logs request
// completion with method, path, status and duration.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := logger.FromContextOrDefault(ctx, nil).With("trace_id", traceID)
		ctx = logger.WithLogger(ctx, log)

		ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		log.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
