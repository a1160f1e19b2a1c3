// Package redis keeps the challenge ledger in Redis so several service
// instances can share replay and attempt state without a shared database.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aussiebroadwan/otpauth/internal/auth/store"
	goredis "github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const keyPrefix = "otpauth:challenge:"

// NewClient parses url and checks the server answers a PING.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	if url == "" {
		return nil, oops.Code("REDIS_CONFIG_INVALID").Errorf("redis url is required")
	}

	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, oops.Code("REDIS_CONFIG_INVALID").Wrapf(err, "parse redis url")
	}

	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_UNAVAILABLE").With("addr", opt.Addr).Wrapf(err, "ping redis")
	}
	return client, nil
}

// Ledger implements store.Challenges. Keys expire with the challenge they
// track, so DeleteExpired has nothing to do.
type Ledger struct {
	rdb goredis.Cmdable
}

func NewLedger(rdb goredis.Cmdable) *Ledger {
	return &Ledger{rdb: rdb}
}

var _ store.Challenges = (*Ledger)(nil)

func failuresKey(id string) string { return keyPrefix + id + ":failures" }
func consumedKey(id string) string { return keyPrefix + id + ":consumed" }

// reserveScript grants an attempt only while fewer than ARGV[1] are held.
// It returns the new count, or -1 when the budget is spent.
var reserveScript = goredis.NewScript(`
local n = tonumber(redis.call("GET", KEYS[1]) or "0")
if n >= tonumber(ARGV[1]) then
	return -1
end
n = redis.call("INCR", KEYS[1])
redis.call("EXPIREAT", KEYS[1], ARGV[2])
return n
`)

// releaseScript decrements without going below zero. DECR keeps the TTL.
var releaseScript = goredis.NewScript(`
local n = tonumber(redis.call("GET", KEYS[1]) or "0")
if n > 0 then
	return redis.call("DECR", KEYS[1])
end
return 0
`)

func (l *Ledger) ReserveAttempt(ctx context.Context, id string, limit int, expiresAt time.Time) (bool, error) {
	if limit <= 0 {
		return false, nil
	}

	n, err := reserveScript.Run(ctx, l.rdb, []string{failuresKey(id)}, limit, expiresAt.Unix()).Int()
	if err != nil {
		return false, oops.Code("CHALLENGE_RESERVE_FAILED").With("jti", id).Wrap(err)
	}
	return n > 0, nil
}

func (l *Ledger) ReleaseAttempt(ctx context.Context, id string) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{failuresKey(id)}).Err(); err != nil {
		return oops.Code("CHALLENGE_RELEASE_FAILED").With("jti", id).Wrap(err)
	}
	return nil
}

func (l *Ledger) Failures(ctx context.Context, id string) (int, error) {
	v, err := l.rdb.Get(ctx, failuresKey(id)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, oops.Code("CHALLENGE_LOOKUP_FAILED").With("jti", id).Wrap(err)
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, oops.Code("CHALLENGE_LOOKUP_FAILED").With("jti", id).With("value", v).Wrap(err)
	}
	return n, nil
}

func (l *Ledger) Consume(ctx context.Context, id string, now, expiresAt time.Time) error {
	ttl := expiresAt.Sub(now)
	if ttl < time.Second {
		ttl = time.Second
	}

	ok, err := l.rdb.SetNX(ctx, consumedKey(id), now.Unix(), ttl).Result()
	if err != nil {
		return oops.Code("CHALLENGE_CONSUME_FAILED").With("jti", id).Wrap(err)
	}
	if !ok {
		return store.ErrAlreadyConsumed
	}
	return nil
}

func (l *Ledger) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// Ping reports whether Redis is reachable, for readiness checks.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.rdb.Ping(ctx).Err()
}
