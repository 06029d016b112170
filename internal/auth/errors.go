package auth

import "fmt"

// Kind identifies a specific authentication or authorization failure.
// The set is closed: middleware and handlers switch over it exhaustively
// when mapping failures to HTTP responses.
type Kind uint8

const (
	// KindMissing means no credential was supplied at all. The token
	// pipeline never produces it; the HTTP layer does, so that all call
	// sites share one error taxonomy.
	KindMissing Kind = iota + 1
	// KindMalformed means the token is not three non-empty base64url
	// segments of JSON.
	KindMalformed
	// KindInvalidSignature means the HMAC did not match.
	KindInvalidSignature
	// KindExpired means exp is in the past (beyond clock skew).
	KindExpired
	// KindIssuedInFuture means iat is in the future (beyond clock skew).
	KindIssuedInFuture
	// KindInvalidIssuer means iss does not match the configured issuer.
	KindInvalidIssuer
	// KindInvalidAudience means aud does not match the configured audience.
	KindInvalidAudience
	// KindMissingClaim means a required claim is absent; Error.Claim names it.
	KindMissingClaim
	// KindForbidden means the authenticated subject does not own the
	// requested resource.
	KindForbidden
)

var kindNames = map[Kind]string{
	KindMissing:          "missing credential",
	KindMalformed:        "malformed token",
	KindInvalidSignature: "invalid signature",
	KindExpired:          "token expired",
	KindIssuedInFuture:   "token issued in the future",
	KindInvalidIssuer:    "invalid issuer",
	KindInvalidAudience:  "invalid audience",
	KindMissingClaim:     "missing claim",
	KindForbidden:        "forbidden",
}

// Error is a typed authentication/authorization failure. Every failure in
// the verification path is terminal for the request; nothing in this
// package retries.
type Error struct {
	Kind  Kind
	Claim string // set only for KindMissingClaim
}

func (e *Error) Error() string {
	name, ok := kindNames[e.Kind]
	if !ok {
		name = "authentication failed"
	}
	if e.Kind == KindMissingClaim && e.Claim != "" {
		return fmt.Sprintf("%s: %s", name, e.Claim)
	}
	return name
}

// Is matches any *Error with the same Kind, so errors.Is(err, ErrExpired)
// works regardless of which stage produced the value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinel values for errors.Is checks.
var (
	ErrMissing          = &Error{Kind: KindMissing}
	ErrMalformed        = &Error{Kind: KindMalformed}
	ErrInvalidSignature = &Error{Kind: KindInvalidSignature}
	ErrExpired          = &Error{Kind: KindExpired}
	ErrIssuedInFuture   = &Error{Kind: KindIssuedInFuture}
	ErrInvalidIssuer    = &Error{Kind: KindInvalidIssuer}
	ErrInvalidAudience  = &Error{Kind: KindInvalidAudience}
	ErrForbidden        = &Error{Kind: KindForbidden}
)

// MissingClaimError reports which required claim was absent.
func MissingClaimError(claim string) *Error {
	return &Error{Kind: KindMissingClaim, Claim: claim}
}
