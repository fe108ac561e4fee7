package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsMiddleware tracks request timing and metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the metrics surface itself and the health probe stay out of the data
		path := r.URL.Path
		if path == "/health" ||
			path == "/api/v1/metrics" ||
			path == "/api/v1/metrics/summary" ||
			path == "/api/v1/metrics/routes" {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		trace := &RequestTrace{
			RequestID: uuid.New().String(),
			Method:    r.Method,
			Path:      path,
			StartTime: startTime,
			Upstream:  make([]UpstreamCallTrace, 0),
		}
		r = r.WithContext(WithRequestTrace(r.Context(), trace))

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		trace.EndTime = time.Now()
		trace.TotalDuration = time.Since(startTime)
		trace.Status = wrapped.statusCode
		if wrapped.statusCode >= 400 {
			trace.Error = http.StatusText(wrapped.statusCode)
		}

		GetMetrics().RecordTrace(*trace)

		if trace.TotalDuration > 1*time.Second {
			zap.S().Warnw("slow request",
				"requestId", trace.RequestID,
				"method", r.Method,
				"path", path,
				"duration", trace.TotalDuration,
				"status", wrapped.statusCode,
				"upstreamCalls", len(trace.Upstream),
				"upstreamTime", trace.UpstreamTime,
			)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code. It
// implements http.Hijacker so websocket upgrades keep working behind it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
