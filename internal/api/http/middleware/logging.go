package middleware

import (
	"net/http"
	"time"

	"github.com/dmas-wbpl/sonicwall/internal/logger"
)

// Logging logs HTTP requests and their results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Handle logs method, path, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		l.logger.Info("HTTP request started",
			"method", r.Method,
			"path", r.URL.Path,
			"start_time", start.Format(time.RFC3339))

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		duration := time.Since(start)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"status", recorder.status)

		if recorder.status >= http.StatusInternalServerError {
			l.logger.Error("HTTP request failed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.status)
		}
	})
}
