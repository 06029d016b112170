package auth

import "time"

// Issuer mints signed tokens for authenticated users. It lives next to the
// gate so the two always agree on the token format, but verification never
// depends on it.
type Issuer struct {
	codec    *Codec
	issuer   string
	audience string
	ttl      time.Duration
	clock    Clock
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithIssuerClock overrides the issuer's time source.
func WithIssuerClock(clock Clock) IssuerOption {
	return func(i *Issuer) {
		i.clock = clock
	}
}

// NewIssuer creates an issuer minting tokens with the given secret,
// issuer/audience identifiers and lifetime.
func NewIssuer(secret []byte, issuer, audience string, ttl time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		codec:    NewCodec(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue mints a token asserting the given subject. Email is carried as a
// descriptive claim and may be empty.
func (i *Issuer) Issue(subject, email string) (string, error) {
	now := i.clock()
	return i.codec.Encode(Claims{
		Sub:   subject,
		Email: email,
		Iss:   i.issuer,
		Aud:   i.audience,
		Iat:   now.Unix(),
		Exp:   now.Add(i.ttl).Unix(),
	})
}
