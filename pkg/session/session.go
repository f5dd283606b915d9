// Package session keeps opaque server-side sessions in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var ErrNotFound = errors.New("session not found")

type Store struct {
	client *redis.Client
	maxAge time.Duration
}

func NewStore(client *redis.Client, maxAge time.Duration) *Store {
	return &Store{client: client, maxAge: maxAge}
}

// Create stores userID under a fresh session id that expires after the store's max age.
func (s *Store) Create(ctx context.Context, userID uint) (string, error) {
	sid := uuid.New().String()
	if err := s.client.Set(ctx, keyPrefix+sid, userID, s.maxAge).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return sid, nil
}

func (s *Store) Get(ctx context.Context, sid string) (uint, error) {
	if sid == "" {
		return 0, ErrNotFound
	}

	value, err := s.client.Get(ctx, keyPrefix+sid).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read session: %w", err)
	}

	userID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, ErrNotFound
	}
	return uint(userID), nil
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
