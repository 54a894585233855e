package impl

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"contacts/internal/cache"
	"contacts/internal/domain"
	"contacts/internal/service"
)

// userSource is the slice of the data store the resolver needs.
type userSource interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionResolverImpl turns a bearer token into the authenticated user,
// consulting the user cache before the data store and writing the cache
// back on a miss. The cache write is best-effort: losing it only costs one
// extra store read within the TTL window.
type SessionResolverImpl struct {
	tokens   service.TokenService
	users    userSource
	cache    cache.UserCache
	cacheTTL time.Duration
}

func NewSessionResolver(tokens service.TokenService, users userSource, c cache.UserCache, cacheTTL time.Duration) *SessionResolverImpl {
	return &SessionResolverImpl{tokens: tokens, users: users, cache: c, cacheTTL: cacheTTL}
}

func (s *SessionResolverImpl) Resolve(ctx context.Context, bearer string) (*domain.User, error) {
	username, err := s.tokens.Verify(bearer, service.PurposeAccess)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	key := cache.UserKey(username)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var u domain.User
		if err := json.Unmarshal(raw, &u); err == nil {
			return &u, nil
		}
		// Corrupt entry: fall through to the store and overwrite it.
		slog.Warn("discarding undecodable cache entry", "key", key)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if raw, err := json.Marshal(user); err == nil {
		s.cache.Set(ctx, key, raw, s.cacheTTL)
	}
	return user, nil
}
