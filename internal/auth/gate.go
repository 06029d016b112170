package auth

import "time"

// Gate is the single entry point the HTTP layer calls to turn a raw bearer
// credential into an authenticated identity. It composes signature
// verification and claim validation; the first failure from either stage
// is returned as a *Error.
//
// Authenticate is a pure function of the token, the configured secret and
// policy, and the injected clock. It performs no I/O and holds no state,
// so any number of requests (or processes) can verify tokens concurrently.
type Gate struct {
	codec  *Codec
	policy Policy
	clock  Clock
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithClock overrides the gate's time source. Used by tests to pin "now".
func WithClock(clock Clock) GateOption {
	return func(g *Gate) {
		g.clock = clock
	}
}

// NewGate creates a gate verifying tokens with the given secret and policy.
func NewGate(secret []byte, policy Policy, opts ...GateOption) *Gate {
	g := &Gate{
		codec:  NewCodec(secret),
		policy: policy,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate verifies the token and returns the identity it asserts.
// An empty token returns ErrMissing; every other failure is one of the
// *Error kinds. A failed verification never yields a fallback identity.
func (g *Gate) Authenticate(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissing
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	if err := g.policy.Validate(claims, g.clock()); err != nil {
		return Identity{}, err
	}

	return Identity{Subject: claims.Sub, Email: claims.Email}, nil
}
