package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bookshelf/pkg/helpers"
)

// ResetTokenStore maps single-use password reset tokens to user ids.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	// Consume returns the owner and removes the token in one step, so a token redeems at most once.
	// It returns "" when the token is unknown, expired or already used.
	Consume(ctx context.Context, token string) (string, error)
}

func keyResetToken(t string) string { return helpers.RedisKey("pwd", "reset", "token", t) }

// RedisResetTokens keeps reset tokens in Redis with a TTL.
type RedisResetTokens struct {
	rdb redis.Cmdable
}

func NewRedisResetTokens(rdb redis.Cmdable) *RedisResetTokens {
	return &RedisResetTokens{rdb: rdb}
}

func (s *RedisResetTokens) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.rdb.Set(ctx, keyResetToken(token), userID, ttl).Err()
}

func (s *RedisResetTokens) Consume(ctx context.Context, token string) (string, error) {
	uid, err := s.rdb.GetDel(ctx, keyResetToken(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return uid, err
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
