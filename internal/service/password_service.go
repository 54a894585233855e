package service

type PasswordService interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. A mismatch is a
	// plain false, never an error.
	Verify(password, digest string) bool
}
