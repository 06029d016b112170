package middleware

import (
	"context"

	"github.com/taskloop/taskloop/internal/auth"
	"github.com/taskloop/taskloop/internal/request"
)

// SetIdentityInContext is a helper for tests in other packages that need
// an authenticated request without running the full middleware chain.
func SetIdentityInContext(ctx context.Context, identity auth.Identity) context.Context {
	return request.WithIdentity(ctx, identity)
}
