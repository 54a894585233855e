package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contacts/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserStore struct {
	db *sql.DB
}

const userColumns = "id, username, email, hashed_password, role, confirmed, avatar, created_at, updated_at"

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Role, &u.Confirmed, &u.Avatar, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// uniqueViolation maps a postgres unique-index violation onto the matching
// conflict error, so a concurrent duplicate registration surfaces the same
// way as one caught by the pre-insert lookups.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "ux_users_email":
		return domain.ErrEmailTaken
	case "ux_users_username":
		return domain.ErrUsernameTaken
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, username, email, hashed_password, role, confirmed, avatar, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.HashedPassword, u.Role, u.Confirmed, u.Avatar, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, username))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *UserStore) ConfirmEmail(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = TRUE, updated_at = $2 WHERE email = $1`

	res, err := s.db.ExecContext(ctx, query, email, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	query := `UPDATE users SET hashed_password = $2, updated_at = $3 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, hashedPassword, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	query := `UPDATE users SET avatar = $2, updated_at = $3 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, avatarURL, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
