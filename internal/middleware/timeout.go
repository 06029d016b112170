package middleware

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultRequestTimeout is the default request timeout (30 seconds)
	DefaultRequestTimeout = 30 * time.Second
)

// Timeout aborts requests that run longer than the given duration with a
// 503. The deadline is also placed on the request context so store calls
// observe it and stop doing work for a response nobody will read.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		// TimeoutHandler owns the response writer after the deadline, so
		// a late handler write cannot corrupt the timeout response.
		inner := http.TimeoutHandler(next, timeout, "Request Timeout")

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			inner.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
