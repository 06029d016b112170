package auth

// Authorize decides whether the authenticated identity may act on a
// resource owned by ownerID. The rule is strict equality of the subject:
// there are no roles or group memberships, only per-owner isolation.
//
// Callers must map ErrForbidden to the same externally visible response as
// a missing resource (a generic 404), so the existence of another user's
// resources cannot be probed through distinguishable errors.
func Authorize(identity Identity, ownerID string) error {
	if identity.Subject == "" || identity.Subject != ownerID {
		return ErrForbidden
	}
	return nil
}
