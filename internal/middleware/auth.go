package middleware

import (
	"errors"
	"net/http"

	"github.com/taskloop/taskloop/internal/auth"
	logpkg "github.com/taskloop/taskloop/internal/logger"
	"github.com/taskloop/taskloop/internal/request"
	"go.uber.org/zap"
)

// Auth creates authentication middleware that runs every request's bearer
// credential through the gate. Verification is a pure in-process
// computation: no store or network call happens before the identity is
// established, and no handler runs without one.
//
// Every failure maps to 401 with the same generic body; the specific
// reason is logged server-side only, so responses do not help an attacker
// distinguish a forged signature from an expired token.
func Auth(gate *auth.Gate, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if r.Header.Get("Authorization") == "" {
				// No credential at all: report Missing through the same
				// taxonomy the gate uses.
				logAuthFailure(logger, r, auth.ErrMissing)
				respondUnauthorized(w)
				return
			}

			token = request.BearerToken(r)
			if token == "" {
				// Header present but not a usable Bearer credential.
				logAuthFailure(logger, r, auth.ErrMalformed)
				respondUnauthorized(w)
				return
			}

			identity, err := gate.Authenticate(token)
			if err != nil {
				logAuthFailure(logger, r, err)
				respondUnauthorized(w)
				return
			}

			ctx := request.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logAuthFailure(logger *zap.Logger, r *http.Request, err error) {
	var authErr *auth.Error
	reason := "unknown"
	if errors.As(err, &authErr) {
		reason = authErr.Error()
	}
	logger.Warn("authentication_failed",
		zap.String("reason", reason),
		zap.String("path", logpkg.SanitizePath(r.URL.Path)),
		zap.String("method", r.Method),
		zap.String("client_ip", logpkg.SanitizeValue(request.ClientIP(r))),
	)
}

// respondUnauthorized writes the single generic 401 body used for every
// authentication failure.
func respondUnauthorized(w http.ResponseWriter) {
	respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or missing credentials")
}
