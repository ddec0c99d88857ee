package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "pizzaservice/internal/errors"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// SessionKey is the fixed-width digest every registry stores in place of the raw token.
func SessionKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// SessionRegistry is the set of currently valid tokens. A token that verifies but is
// absent from the registry must be treated as revoked.
type SessionRegistry interface {
	Create(ctx context.Context, userID uint, token string) error
	Exists(ctx context.Context, token string) (bool, error)
	// Revoke removes the session if present and reports whether a row was removed.
	Revoke(ctx context.Context, token string) (bool, error)
	RevokeAllForUser(ctx context.Context, userID uint) (int64, error)
}

// RedisSessionRegistry keeps sessions in redis, one key per token.
type RedisSessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// Ensure RedisSessionRegistry implements SessionRegistry
var _ SessionRegistry = (*RedisSessionRegistry)(nil)

type sessionRecord struct {
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRedisSessionRegistry creates a redis-backed registry. A non-zero ttl bounds
// each session to the lifetime of its token.
func NewRedisSessionRegistry(client *redis.Client, ttl time.Duration) *RedisSessionRegistry {
	return &RedisSessionRegistry{client: client, ttl: ttl, now: time.Now}
}

// Create stores a new session and indexes it under its user in one MULTI/EXEC.
// A token embeds its user id, so re-adding a duplicate to the index is harmless.
func (r *RedisSessionRegistry) Create(ctx context.Context, userID uint, token string) error {
	payload, err := json.Marshal(sessionRecord{UserID: userID, CreatedAt: r.now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := SessionKey(token)
	indexKey := userSessionKey(userID)

	var stored *redis.BoolCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		stored = pipe.SetNX(ctx, sessionKeyPrefix+key, payload, r.ttl)
		pipe.SAdd(ctx, indexKey, key)
		if r.ttl > 0 {
			pipe.Expire(ctx, indexKey, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !stored.Val() {
		return apperrors.ErrSessionExists
	}
	return nil
}

// Exists reports whether the token has a live session.
func (r *RedisSessionRegistry) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKeyPrefix+SessionKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n == 1, nil
}

// Revoke deletes the session. Revoking an unknown token is a no-op.
// GETDEL needs Redis 6.2 or later.
func (r *RedisSessionRegistry) Revoke(ctx context.Context, token string) (bool, error) {
	key := SessionKey(token)
	data, err := r.client.GetDel(ctx, sessionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revoke session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err == nil {
		_ = r.client.SRem(ctx, userSessionKey(rec.UserID), key).Err()
	}
	return true, nil
}

// RevokeAllForUser deletes every session issued to the user and returns how many were live.
func (r *RedisSessionRegistry) RevokeAllForUser(ctx context.Context, userID uint) (int64, error) {
	indexKey := userSessionKey(userID)
	members, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}

	// Members whose session already expired count as zero in DEL.
	keys := make([]string, 0, len(members))
	for _, key := range members {
		keys = append(keys, sessionKeyPrefix+key)
	}

	var removed *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, keys...)
		pipe.Del(ctx, indexKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	return removed.Val(), nil
}

func userSessionKey(userID uint) string {
	return fmt.Sprintf("%s%d", userSessionKeyPrefix, userID)
}
