package impl

import (
	"context"
	"errors"
	"testing"
	"time"

	"contacts/internal/domain"
	"contacts/internal/dto"
	"contacts/internal/service"

	"github.com/google/uuid"
)

func loginReq(username, password string) dto.LoginRequest {
	return dto.LoginRequest{Username: username, Password: password}
}

func seedConfirmedUser(t *testing.T, users *memUsers, username, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		HashedPassword: "hashed:pw",
		Role:           domain.RoleUser,
		Confirmed:      true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestResolvePopulatesCacheAndSkipsStoreWithinTTL(t *testing.T) {
	users := newMemUsers()
	cache := newMemCache()
	tokens := newTestTokens()
	seedConfirmedUser(t, users, "alice", "alice@example.com")

	resolver := NewSessionResolver(tokens, users, cache, time.Hour)
	bearer, err := tokens.Issue("alice", service.PurposeAccess)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	first, err := resolver.Resolve(context.Background(), bearer)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if users.getByUsernameCalls != 1 {
		t.Fatalf("expected one store read, got %d", users.getByUsernameCalls)
	}
	if cache.setCalls != 1 {
		t.Fatalf("cache was not populated on miss")
	}

	second, err := resolver.Resolve(context.Background(), bearer)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if users.getByUsernameCalls != 1 {
		t.Fatalf("second resolve within TTL must not hit the store, got %d reads", users.getByUsernameCalls)
	}
	if first.ID != second.ID || first.Username != second.Username || first.Email != second.Email {
		t.Fatalf("cached user differs from stored user: %+v vs %+v", first, second)
	}
}

func TestResolveReadsStoreAgainAfterTTLExpiry(t *testing.T) {
	users := newMemUsers()
	cache := newMemCache()
	tokens := newTestTokens()
	seedConfirmedUser(t, users, "alice", "alice@example.com")

	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }

	resolver := NewSessionResolver(tokens, users, cache, time.Hour)
	bearer, _ := tokens.Issue("alice", service.PurposeAccess)

	if _, err := resolver.Resolve(context.Background(), bearer); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	clock = clock.Add(2 * time.Hour) // entry lapses

	if _, err := resolver.Resolve(context.Background(), bearer); err != nil {
		t.Fatalf("resolve after expiry: %v", err)
	}
	if users.getByUsernameCalls != 2 {
		t.Fatalf("expected a fresh store read after TTL expiry, got %d reads", users.getByUsernameCalls)
	}
}

func TestResolveUnauthorizedCases(t *testing.T) {
	users := newMemUsers()
	cache := newMemCache()
	tokens := newTestTokens()
	resolver := NewSessionResolver(tokens, users, cache, time.Hour)

	expired := newTestTokens()
	expired.now = func() time.Time { return time.Now().UTC().Add(-48 * time.Hour) }
	expiredToken, _ := expired.Issue("alice", service.PurposeAccess)

	resetToken, _ := tokens.Issue("alice@example.com", service.PurposePasswordReset)
	unknownUserToken, _ := tokens.Issue("ghost", service.PurposeAccess)

	cases := []struct {
		name   string
		bearer string
	}{
		{name: "garbage token", bearer: "nope"},
		{name: "expired token", bearer: expiredToken},
		{name: "reset token does not authenticate", bearer: resetToken},
		{name: "unknown subject", bearer: unknownUserToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := resolver.Resolve(context.Background(), tc.bearer); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestResolveSurvivesCorruptCacheEntry(t *testing.T) {
	users := newMemUsers()
	cache := newMemCache()
	tokens := newTestTokens()
	seedConfirmedUser(t, users, "alice", "alice@example.com")

	cache.Set(context.Background(), "user:alice", []byte("{not json"), time.Hour)

	resolver := NewSessionResolver(tokens, users, cache, time.Hour)
	bearer, _ := tokens.Issue("alice", service.PurposeAccess)

	user, err := resolver.Resolve(context.Background(), bearer)
	if err != nil {
		t.Fatalf("resolve must fall back to the store: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if users.getByUsernameCalls != 1 {
		t.Fatalf("expected store fallback, got %d reads", users.getByUsernameCalls)
	}
}

// End to end: register → login blocked → confirm → login → token resolves.
func TestRegisterConfirmLoginResolveFlow(t *testing.T) {
	users := newMemUsers()
	cache := newMemCache()
	tokens := newTestTokens()
	emails := &stubEmailService{}
	auth := NewAuthServiceImpl(users, &stubPasswordService{}, tokens, emails, cache)
	resolver := NewSessionResolver(tokens, users, cache, time.Hour)
	ctx := context.Background()

	created := register(t, auth, "dana", "dana@example.com", "secret-pw-1")

	if _, err := auth.Login(ctx, loginReq("dana", "secret-pw-1")); !errors.Is(err, domain.ErrEmailNotConfirmed) {
		t.Fatalf("login before confirmation must fail, got %v", err)
	}

	if _, err := auth.ConfirmEmail(ctx, emails.last(t).token); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	resp, err := auth.Login(ctx, loginReq("dana", "secret-pw-1"))
	if err != nil {
		t.Fatalf("login after confirmation: %v", err)
	}

	resolved, err := resolver.Resolve(ctx, resp.AccessToken)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != created.ID {
		t.Fatalf("resolved wrong user: %s vs %s", resolved.ID, created.ID)
	}
}
