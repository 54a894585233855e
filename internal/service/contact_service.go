package service

import (
	"context"

	"contacts/internal/domain"
	"contacts/internal/dto"

	"github.com/google/uuid"
)

type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
	Skip      int
	Limit     int
}

type ContactService interface {
	List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Contact, error)
	Get(ctx context.Context, userID, contactID uuid.UUID) (*domain.Contact, error)
	Create(ctx context.Context, userID uuid.UUID, r dto.ContactRequest) (*domain.Contact, error)
	Update(ctx context.Context, userID, contactID uuid.UUID, r dto.ContactRequest) (*domain.Contact, error)
	Delete(ctx context.Context, userID, contactID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, f ContactFilter) ([]*domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error)
}
