package service

import "time"

// Token purposes. The same signing secret covers all three; the purpose
// claim keeps one kind from being replayed as another.
const (
	PurposeAccess        = "access"
	PurposeEmailConfirm  = "email_confirm"
	PurposePasswordReset = "password_reset"
)

type TokenService interface {
	// Issue signs a token whose subject is interpreted per purpose
	// (username for access, email for the two mail-driven flows).
	Issue(subject, purpose string) (string, error)
	// Verify checks signature, expiry and purpose and returns the subject.
	// Fails with domain.ErrExpiredToken or domain.ErrMalformedToken.
	Verify(token, purpose string) (subject string, err error)
	// AccessTTL reports the configured access-token lifetime.
	AccessTTL() time.Duration
}
