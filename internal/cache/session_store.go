package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// SessionStore keeps live session ids in Redis, each mapped to its user id.
type SessionStore struct {
	client *redisv9.Client
}

func NewSessionStore(client *redisv9.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save records the session. A zero ttl keeps it until Delete.
func (s *SessionStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(sessionID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis save session failed: %w", err)
	}
	return nil
}

func (s *SessionStore) Lookup(ctx context.Context, sessionID string) (uint, bool, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err == redisv9.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get session failed: %w", err)
	}
	userID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse session user id failed: %w", err)
	}
	return uint(userID), true, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	removed, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis delete session failed: %w", err)
	}
	return removed > 0, nil
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("auth:session:%s", sessionID)
}
