package service

import (
	"context"

	"contacts/internal/domain"
)

// SessionResolver maps a bearer token to the authenticated user. It is a
// request-scoped lookup; there is no session object with its own lifecycle.
type SessionResolver interface {
	Resolve(ctx context.Context, bearer string) (*domain.User, error)
}
