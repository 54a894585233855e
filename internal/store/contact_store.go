package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"contacts/internal/domain"

	"github.com/google/uuid"
)

type ContactStore struct {
	db *sql.DB
}

const contactColumns = "id, user_id, first_name, last_name, email, phone, birthday, created_at, updated_at"

func collectContacts(rows *sql.Rows) ([]*domain.Contact, error) {
	defer rows.Close()

	var out []*domain.Contact
	for rows.Next() {
		c := &domain.Contact{}
		var birthday sql.NullTime
		if err := rows.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &birthday, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if birthday.Valid {
			t := birthday.Time.UTC()
			c.Birthday = &t
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (s *ContactStore) Create(ctx context.Context, c *domain.Contact) error {
	query := `INSERT INTO contacts (id, user_id, first_name, last_name, email, phone, birthday, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *ContactStore) GetByID(ctx context.Context, userID, contactID uuid.UUID) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	c := &domain.Contact{}
	var birthday sql.NullTime
	err := s.db.QueryRowContext(ctx, query, contactID, userID).
		Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &birthday, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if birthday.Valid {
		t := birthday.Time.UTC()
		c.Birthday = &t
	}
	return c, nil
}

func (s *ContactStore) List(ctx context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
	          WHERE user_id = $1
	          ORDER BY created_at, id
	          OFFSET $2 LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, userID, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}

func (s *ContactStore) Update(ctx context.Context, c *domain.Contact) error {
	query := `UPDATE contacts
	          SET first_name = $3, last_name = $4, email = $5, phone = $6, birthday = $7, updated_at = $8
	          WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query,
		c.ID, c.UserID, c.FirstName, c.LastName, c.Email, c.Phone, c.Birthday, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (s *ContactStore) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	query := `DELETE FROM contacts WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, contactID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

// Search filters by case-insensitive substring on any of the provided
// fields (OR semantics), always scoped to the owner.
func (s *ContactStore) Search(ctx context.Context, userID uuid.UUID, firstName, lastName, email string, skip, limit int) ([]*domain.Contact, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`)

	args := []any{userID}
	var filters []string
	for _, f := range []struct {
		column string
		value  string
	}{
		{"first_name", firstName},
		{"last_name", lastName},
		{"email", email},
	} {
		if f.value == "" {
			continue
		}
		args = append(args, "%"+f.value+"%")
		filters = append(filters, f.column+" ILIKE $"+strconv.Itoa(len(args)))
	}
	if len(filters) > 0 {
		sb.WriteString(" AND (" + strings.Join(filters, " OR ") + ")")
	}

	args = append(args, skip, limit)
	sb.WriteString(" ORDER BY created_at, id")
	sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)-1))
	sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}

func (s *ContactStore) BirthdaysBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
	          WHERE user_id = $1 AND birthday BETWEEN $2 AND $3
	          ORDER BY birthday, id`

	rows, err := s.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return collectContacts(rows)
}
