package auth

// Claims is the payload of a signed token. A Claims value is only ever
// obtained from Codec.Verify, so holding one implies the signature checked
// out; temporal and issuer policy are enforced separately by Policy.
type Claims struct {
	Sub   string `json:"sub"`             // subject (user ID)
	Email string `json:"email,omitempty"` // descriptive, not validated
	Iss   string `json:"iss,omitempty"`   // issuer
	Aud   string `json:"aud,omitempty"`   // audience
	Iat   int64  `json:"iat"`             // issued at, unix seconds
	Exp   int64  `json:"exp"`             // expiration, unix seconds
}

// Identity is the validated subject of a request. It exists as a distinct
// type so a raw, unverified string can never be passed where an
// authenticated user ID is expected. Production code only obtains one from
// Gate.Authenticate.
type Identity struct {
	Subject string
	Email   string
}
