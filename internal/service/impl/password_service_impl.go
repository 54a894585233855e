package impl

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceImpl hashes credentials with bcrypt. The salt lives inside
// the digest, so storage is a single opaque string.
type PasswordServiceImpl struct {
	cost int
}

func NewPasswordServiceBcrypt() *PasswordServiceImpl {
	return &PasswordServiceImpl{cost: bcrypt.DefaultCost}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyCredential
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether password matches digest. A mismatch is false, not
// an error; only a digest bcrypt cannot parse would be unexpected, and that
// too is reported as a plain mismatch.
func (p *PasswordServiceImpl) Verify(password, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false
	}
	return err == nil
}
