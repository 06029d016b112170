package auth

import "time"

// DefaultClockSkew tolerates modest clock drift between the issuing and
// verifying processes without materially weakening expiration.
const DefaultClockSkew = 10 * time.Second

// Clock supplies the current time. Injectable so tests can pin "now"
// instead of sleeping or mocking the system clock.
type Clock func() time.Time

// Policy holds the claim checks applied after signature verification.
type Policy struct {
	// Issuer is the expected iss claim; empty skips the check.
	Issuer string
	// Audience is the expected aud claim; empty skips the check.
	Audience string
	// ClockSkew is the tolerated drift for exp/iat comparisons.
	ClockSkew time.Duration
}

// Validate applies the policy to signature-verified claims. Checks run in
// a fixed order and short-circuit on the first failure: required claims,
// expiration, issued-at, issuer, audience. On success the claims pass
// through unmodified.
func (p Policy) Validate(claims Claims, now time.Time) error {
	if claims.Sub == "" {
		return MissingClaimError("sub")
	}
	if claims.Exp == 0 {
		return MissingClaimError("exp")
	}
	if claims.Iat == 0 {
		return MissingClaimError("iat")
	}

	skew := p.ClockSkew
	if skew <= 0 {
		skew = DefaultClockSkew
	}
	skewSecs := int64(skew / time.Second)

	if claims.Exp <= now.Unix()-skewSecs {
		return ErrExpired
	}
	if claims.Iat > now.Unix()+skewSecs {
		return ErrIssuedInFuture
	}

	if p.Issuer != "" && claims.Iss != p.Issuer {
		return ErrInvalidIssuer
	}
	if p.Audience != "" && claims.Aud != p.Audience {
		return ErrInvalidAudience
	}

	return nil
}
