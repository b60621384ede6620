package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	SessionCookieName = "session_token"
	sessionKeyPrefix  = "session:"
)

var ErrNoSession = errors.New("no session")

// SessionStore resolves an opaque session token to a user id. Sessions are issued by
// the external auth provider; this service only reads them.
type SessionStore interface {
	Resolve(ctx context.Context, token string) (string, error)
}

type sessionRecord struct {
	UserID string `json:"userId"`
}

type RedisSessionStore struct {
	c *redis.Client
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisSessionStore(c *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{c: c}
}

func (s *RedisSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	val, err := s.c.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("resolve session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil || rec.UserID == "" {
		return "", ErrNoSession
	}
	return rec.UserID, nil
}

// Put writes a session the way the auth provider does. Used by tests and local tooling.
func (s *RedisSessionStore) Put(ctx context.Context, token, userID string, ttl time.Duration) error {
	b, err := json.Marshal(sessionRecord{UserID: userID})
	if err != nil {
		return err
	}
	return s.c.Set(ctx, sessionKeyPrefix+token, string(b), ttl).Err()
}

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
