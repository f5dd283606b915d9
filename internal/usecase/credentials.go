package usecase

import (
	"context"
	"errors"

	"community-board/internal/apperr"
	"community-board/pkg/jwt"
	"community-board/pkg/session"
)

// Credentials issues and resolves the opaque string a client presents on each request.
// One implementation is chosen per process.
type Credentials interface {
	Issue(ctx context.Context, userID uint) (string, error)
	Resolve(ctx context.Context, credential string) (uint, error)
	Revoke(ctx context.Context, credential string) error
}

type tokenCredentials struct {
	jwtService *jwt.Service
}

func NewTokenCredentials(jwtService *jwt.Service) Credentials {
	return &tokenCredentials{jwtService: jwtService}
}

func (c *tokenCredentials) Issue(_ context.Context, userID uint) (string, error) {
	return c.jwtService.GenerateToken(userID)
}

func (c *tokenCredentials) Resolve(_ context.Context, credential string) (uint, error) {
	claims, err := c.jwtService.ValidateToken(credential)
	if err != nil {
		return 0, apperr.ErrUnauthorized
	}
	return claims.UserID, nil
}

// Revoke is a no-op: tokens stay valid until they expire.
func (c *tokenCredentials) Revoke(context.Context, string) error {
	return nil
}

type SessionStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Get(ctx context.Context, sid string) (uint, error)
	Delete(ctx context.Context, sid string) error
}

type sessionCredentials struct {
	store SessionStore
}

func NewSessionCredentials(store SessionStore) Credentials {
	return &sessionCredentials{store: store}
}

func (c *sessionCredentials) Issue(ctx context.Context, userID uint) (string, error) {
	return c.store.Create(ctx, userID)
}

func (c *sessionCredentials) Resolve(ctx context.Context, credential string) (uint, error) {
	userID, err := c.store.Get(ctx, credential)
	if errors.Is(err, session.ErrNotFound) {
		return 0, apperr.ErrUnauthorized
	}
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return userID, nil
}

func (c *sessionCredentials) Revoke(ctx context.Context, credential string) error {
	return c.store.Delete(ctx, credential)
}
