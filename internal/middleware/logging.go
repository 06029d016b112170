package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/taskloop/taskloop/internal/logger"
	"github.com/taskloop/taskloop/internal/request"
	"go.uber.org/zap"
)

// Logging logs one line per request: method, sanitized path, client IP,
// status, response size and duration.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)
			logger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("client_ip", logpkg.SanitizeValue(request.ClientIP(r))),
				zap.Int("status_code", wrapped.statusCode),
				zap.Int("response_bytes", wrapped.bytesWritten),
				zap.Int64("duration_ms", duration.Milliseconds()),
			)
		})
	}
}

// responseWriter records the status code and body size as they pass
// through. An implicit 200 from a bare Write is counted as such.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	wroteHeader  bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.wroteHeader = true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}
