package impl

import (
	"context"
	"fmt"
	"time"

	"contacts/internal/domain"
	"contacts/internal/dto"
	"contacts/internal/service"

	"github.com/google/uuid"
)

const (
	maxContactField   = 50
	defaultPageLimit  = 10
	maxPageLimit      = 100
	birthdayWindowDay = 7
)

// contactStore is the slice of the data store the contact operations need.
type contactStore interface {
	Create(ctx context.Context, c *domain.Contact) error
	GetByID(ctx context.Context, userID, contactID uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, userID, contactID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, firstName, lastName, email string, skip, limit int) ([]*domain.Contact, error)
	BirthdaysBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Contact, error)
}

type ContactServiceImpl struct {
	contacts contactStore
	now      func() time.Time
}

func NewContactServiceImpl(contacts contactStore) *ContactServiceImpl {
	return &ContactServiceImpl{contacts: contacts, now: func() time.Time { return time.Now().UTC() }}
}

func validateContact(r dto.ContactRequest) error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" {
		return fmt.Errorf("%w: first_name, last_name and email are required", ErrInvalidContact)
	}
	for field, v := range map[string]string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"phone":      r.Phone,
	} {
		if len(v) > maxContactField {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidContact, field, maxContactField)
		}
	}
	return nil
}

func clampPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return skip, limit
}

// normalizeBirthday strips sub-day precision; birthdays are calendar dates.
func normalizeBirthday(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

func (s *ContactServiceImpl) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Contact, error) {
	skip, limit = clampPage(skip, limit)
	return s.contacts.List(ctx, userID, skip, limit)
}

func (s *ContactServiceImpl) Get(ctx context.Context, userID, contactID uuid.UUID) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, userID, contactID)
}

func (s *ContactServiceImpl) Create(ctx context.Context, userID uuid.UUID, r dto.ContactRequest) (*domain.Contact, error) {
	if err := validateContact(r); err != nil {
		return nil, err
	}
	now := s.now()
	c := &domain.Contact{
		ID:        uuid.New(),
		UserID:    userID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Birthday:  normalizeBirthday(r.Birthday),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactServiceImpl) Update(ctx context.Context, userID, contactID uuid.UUID, r dto.ContactRequest) (*domain.Contact, error) {
	if err := validateContact(r); err != nil {
		return nil, err
	}
	c, err := s.contacts.GetByID(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}
	c.FirstName = r.FirstName
	c.LastName = r.LastName
	c.Email = r.Email
	c.Phone = r.Phone
	c.Birthday = normalizeBirthday(r.Birthday)
	c.UpdatedAt = s.now()
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContactServiceImpl) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	return s.contacts.Delete(ctx, userID, contactID)
}

func (s *ContactServiceImpl) Search(ctx context.Context, userID uuid.UUID, f service.ContactFilter) ([]*domain.Contact, error) {
	skip, limit := clampPage(f.Skip, f.Limit)
	return s.contacts.Search(ctx, userID, f.FirstName, f.LastName, f.Email, skip, limit)
}

// UpcomingBirthdays returns contacts whose stored birthday falls between
// the start of today and the end of the day one week out.
func (s *ContactServiceImpl) UpcomingBirthdays(ctx context.Context, userID uuid.UUID) ([]*domain.Contact, error) {
	now := s.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, birthdayWindowDay).Add(24*time.Hour - time.Microsecond)
	return s.contacts.BirthdaysBetween(ctx, userID, from, to)
}
