// AngelaMos | 2026
// blacklist.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

// Blacklist remembers revoked token ids until the tokens would have expired
// anyway.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const blacklistPrefix = "blacklist:"

type redisBlacklist struct {
	rdb *core.Redis
}

func NewRedisBlacklist(rdb *core.Redis) Blacklist {
	return &redisBlacklist{rdb: rdb}
}

func (b *redisBlacklist) Revoke(
	ctx context.Context,
	jti string,
	expiresAt time.Time,
) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := b.rdb.Cmd().Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	return nil
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := b.rdb.Cmd().Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}

	return exists > 0, nil
}

// localBlacklist is the single-process fallback. Entries live for the full
// token lifetime, which outlasts every token they could match.
type localBlacklist struct {
	entries *expirable.LRU[string, time.Time]
}

func NewLocalBlacklist(size int, lifetime time.Duration) Blacklist {
	return &localBlacklist{
		entries: expirable.NewLRU[string, time.Time](size, nil, lifetime),
	}
}

func (b *localBlacklist) Revoke(
	_ context.Context,
	jti string,
	expiresAt time.Time,
) error {
	if time.Until(expiresAt) <= 0 {
		return nil
	}
	b.entries.Add(jti, expiresAt)
	return nil
}

func (b *localBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	expiresAt, ok := b.entries.Get(jti)
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiresAt), nil
}

// NewBlacklist picks Redis when it is configured.
func NewBlacklist(rdb *core.Redis, lifetime time.Duration) Blacklist {
	if rdb.Available() {
		return NewRedisBlacklist(rdb)
	}
	return NewLocalBlacklist(100_000, lifetime)
}
