package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/taskloop/taskloop/internal/auth"
)

type contextKey string

const identityContextKey contextKey = "identity"

// WithIdentity returns a context with the authenticated identity attached.
func WithIdentity(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the authenticated identity from the request
// context. ok is false when the request never passed the auth middleware.
func IdentityFromContext(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(identityContextKey).(auth.Identity)
	return identity, ok
}

// BearerToken extracts the credential from an Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
