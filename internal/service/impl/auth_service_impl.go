package impl

import (
	"context"
	"errors"
	"time"

	"contacts/internal/cache"
	"contacts/internal/domain"
	"contacts/internal/dto"
	"contacts/internal/observability/metrics"
	"contacts/internal/service"

	"github.com/google/uuid"
)

const minPasswordLength = 8

// userStore is the slice of the data store the auth flows need.
type userStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

// AuthServiceImpl orchestrates registration, login, email confirmation and
// password reset. Three independent linear flows sharing the user entity;
// each flow step either fully succeeds or leaves prior state untouched.
type AuthServiceImpl struct {
	users     userStore
	passwords service.PasswordService
	tokens    service.TokenService
	emails    service.EmailService
	userCache cache.UserCache
}

func NewAuthServiceImpl(users userStore, passwords service.PasswordService, tokens service.TokenService, emails service.EmailService, userCache cache.UserCache) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		emails:    emails,
		userCache: userCache,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*domain.User, error) {
	result := "failure"
	defer func() { metrics.RegistrationsTotal.WithLabelValues(result).Inc() }()

	if r.Email == "" || r.Username == "" || r.Password == "" {
		return nil, ErrEmptyCredential
	}
	if len(r.Password) < minPasswordLength {
		return nil, ErrPasswordLength
	}

	if _, err := a.users.GetByEmail(ctx, r.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := a.users.GetByUsername(ctx, r.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	digest, err := a.passwords.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.New(),
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: digest,
		Role:           domain.RoleUser,
		Confirmed:      false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// Unique indexes still guard against a concurrent duplicate slipping
	// past the lookups above.
	if err := a.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if token, err := a.tokens.Issue(user.Email, service.PurposeEmailConfirm); err == nil {
		a.emails.SendConfirmation(ctx, user.Email, user.Username, token)
	}

	result = "success"
	return user, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.TokenResponse, error) {
	result := "failure"
	defer func() { metrics.LoginsTotal.WithLabelValues(result).Inc() }()

	if r.Username == "" || r.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := a.users.GetByUsername(ctx, r.Username)
	if err != nil {
		// Same category for unknown user and bad password: no enumeration.
		return nil, domain.ErrInvalidCredentials
	}
	if !a.passwords.Verify(r.Password, user.HashedPassword) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, domain.ErrEmailNotConfirmed
	}

	access, err := a.tokens.Issue(user.Username, service.PurposeAccess)
	if err != nil {
		return nil, err
	}

	result = "success"
	return &dto.TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresIn:   int64(a.tokens.AccessTTL().Seconds()),
	}, nil
}

// ConfirmEmail flips the confirmed flag exactly once. Confirming an
// already-confirmed address is reported, not rejected.
func (a *AuthServiceImpl) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, err := a.tokens.Verify(token, service.PurposeEmailConfirm)
	if err != nil {
		return false, err
	}
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}
	return false, a.users.ConfirmEmail(ctx, email)
}

// ResendConfirmation re-sends the confirmation link. An unknown email gets
// the same success-shaped outcome as a known one so the endpoint cannot be
// used to probe for accounts.
func (a *AuthServiceImpl) ResendConfirmation(ctx context.Context, email string) (bool, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}
	token, err := a.tokens.Issue(user.Email, service.PurposeEmailConfirm)
	if err != nil {
		return false, err
	}
	a.emails.SendConfirmation(ctx, user.Email, user.Username, token)
	return false, nil
}

func (a *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	token, err := a.tokens.Issue(user.Email, service.PurposePasswordReset)
	if err != nil {
		return err
	}
	a.emails.SendPasswordReset(ctx, user.Email, token)
	return nil
}

// ResetPassword replaces the stored digest and drops the cached user
// snapshot so stale credentials don't linger for the cache TTL. Access
// tokens already issued stay valid until their own expiry.
func (a *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	email, err := a.tokens.Verify(token, service.PurposePasswordReset)
	if err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordLength
	}
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	digest, err := a.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := a.users.UpdatePassword(ctx, user.ID, digest); err != nil {
		return err
	}
	a.userCache.Delete(ctx, cache.UserKey(user.Username))
	return nil
}
