package impl

import (
	"errors"
	"time"

	"contacts/internal/domain"
	"contacts/internal/observability/metrics"
	"contacts/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

type TokenConfig struct {
	Secret     []byte        // HS256 process-wide secret
	AccessTTL  time.Duration // session tokens
	ConfirmTTL time.Duration // email confirmation links
	ResetTTL   time.Duration // password reset links
}

type tokenClaims struct {
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// TokenServiceImpl is the codec for all three token kinds. One secret and
// one algorithm; only the subject semantics and TTL differ per purpose.
// Tokens are stateless: validity is signature plus expiry, nothing else.
type TokenServiceImpl struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

func (t *TokenServiceImpl) AccessTTL() time.Duration { return t.cfg.AccessTTL }

func (t *TokenServiceImpl) ttlFor(purpose string) (time.Duration, error) {
	switch purpose {
	case service.PurposeAccess:
		return t.cfg.AccessTTL, nil
	case service.PurposeEmailConfirm:
		return t.cfg.ConfirmTTL, nil
	case service.PurposePasswordReset:
		return t.cfg.ResetTTL, nil
	}
	return 0, errors.New("unknown token purpose")
}

func (t *TokenServiceImpl) Issue(subject, purpose string) (string, error) {
	if subject == "" {
		return "", ErrEmptyCredential
	}
	ttl, err := t.ttlFor(purpose)
	if err != nil {
		return "", err
	}
	now := t.now()
	claims := tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.Secret)
	if err != nil {
		return "", err
	}
	metrics.TokensIssuedTotal.WithLabelValues(purpose).Inc()
	return signed, nil
}

func (t *TokenServiceImpl) Verify(token, purpose string) (string, error) {
	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.cfg.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrExpiredToken
		}
		return "", domain.ErrMalformedToken
	}
	if !parsed.Valid || claims.Subject == "" || claims.Purpose != purpose {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}
