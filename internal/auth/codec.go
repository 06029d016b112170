package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// MinSecretLength is the minimum accepted HMAC secret length in bytes.
// Anything shorter weakens HS256 below its design strength; config
// enforces this at startup so the codec can assume a usable key.
const MinSecretLength = 32

// tokenHeader is the fixed JOSE header for every token this service signs.
const tokenHeader = `{"alg":"HS256","typ":"JWT"}`

// Codec encodes and verifies three-segment HMAC-SHA256 tokens
// (base64url(header).base64url(payload).base64url(signature)). It is
// stateless and safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec signing and verifying with the given secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret}
}

// Encode serializes claims into a signed token. Claims is a fixed struct,
// so serialization (and therefore the signature) is byte-deterministic for
// equal inputs.
func (c *Codec) Encode(claims Claims) (string, error) {
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	enc := base64.RawURLEncoding
	signingInput := enc.EncodeToString([]byte(tokenHeader)) + "." + enc.EncodeToString(payload)

	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))

	return signingInput + "." + enc.EncodeToString(mac.Sum(nil)), nil
}

// Verify checks a token's structure and signature and returns its claims.
// Structural problems (wrong segment count, empty segments, bad base64,
// bad JSON) return ErrMalformed; a structurally valid token whose MAC does
// not match returns ErrInvalidSignature. Temporal and issuer checks are
// not performed here.
func (c *Codec) Verify(token string) (Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return Claims{}, ErrMalformed
	}
	for _, p := range parts {
		if p == "" {
			return Claims{}, ErrMalformed
		}
	}

	enc := base64.RawURLEncoding

	headerJSON, err := enc.DecodeString(parts[0])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var header struct {
		Alg string `json:"alg"`
		Typ string `json:"typ"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return Claims{}, ErrMalformed
	}
	// Only HS256 is ever issued; accepting anything else (notably "none")
	// would let a client pick its own verification rules.
	if header.Alg != "HS256" {
		return Claims{}, ErrMalformed
	}

	sig, err := enc.DecodeString(parts[2])
	if err != nil {
		return Claims{}, ErrMalformed
	}

	// MAC over the received signing input, not a re-serialization, so
	// verification works for any serializer that produced the token.
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Claims{}, ErrInvalidSignature
	}

	payloadJSON, err := enc.DecodeString(parts[1])
	if err != nil {
		return Claims{}, ErrMalformed
	}
	var claims Claims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return Claims{}, ErrMalformed
	}

	return claims, nil
}
