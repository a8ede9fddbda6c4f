package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrTokenNotFound is returned for unknown, expired or already used tokens.
var ErrTokenNotFound = errors.New("token not found")

// TokenStore keeps single-use password reset tokens in redis.
type TokenStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewTokenStore(rdb *redis.Client, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenStore{rdb: rdb, prefix: "pwreset:", ttl: ttl}
}

// Issue creates a token bound to userID.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := s.rdb.Set(ctx, s.prefix+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume resolves and deletes the token atomically.
func (s *TokenStore) Consume(ctx context.Context, token string) (int64, error) {
	val, err := s.rdb.GetDel(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrTokenNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, ErrTokenNotFound
	}
	return id, nil
}
