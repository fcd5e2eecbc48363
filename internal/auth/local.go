package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yourname/devtrack/internal"
	"github.com/yourname/devtrack/internal/storage"
)

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LocalAuthProvider issues and verifies HS256 session tokens.
type LocalAuthProvider struct {
	secret []byte
	ttl    time.Duration
	users  storage.UserRepository
	logger internal.Logger
	now    func() time.Time
}

func NewLocalAuthProvider(secret string, ttl time.Duration, users storage.UserRepository, logger internal.Logger) *LocalAuthProvider {
	return &LocalAuthProvider{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

func (a *LocalAuthProvider) IssueToken(user *internal.User) (string, error) {
	now := a.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *LocalAuthProvider) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		a.logger.Warnf("invalid token: %v", err)
		return nil, ErrInvalidToken
	}

	user, err := a.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			a.logger.Warnf("token for unknown user %s", claims.Subject)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
