package middleware

import (
	"net/http"

	logpkg "github.com/taskloop/taskloop/internal/logger"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics from downstream handlers. The panic value
// and request details go to the log; the client gets the generic error
// envelope with no hint of what failed.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered",
						zap.Any("error", err),
						zap.String("path", logpkg.SanitizePath(r.URL.Path)),
						zap.String("method", r.Method),
					)
					respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
