package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "matchpoint:lock:"

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot release a newer holder's lease.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker coordinates leases across processes sharing one Redis.
type RedisLocker struct {
	rdb  *redis.Client
	opts Options
}

func NewRedisLocker(rdb *redis.Client, opts Options) *RedisLocker {
	return &RedisLocker{rdb: rdb, opts: opts.withDefaults()}
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return rdb, nil
}

func (r *RedisLocker) Acquire(ctx context.Context, key string) (Unlock, error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, r.opts.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(r.opts.RetryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.rdb.SetNX(waitCtx, redisKey, token, r.opts.TTL).Result()
		if err != nil && waitCtx.Err() == nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return r.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ticker.C:
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			log.Ctx(ctx).Warn().Str("lock_key", key).Dur("wait", r.opts.WaitTimeout).Msg("Lock wait timed out")
			return nil, timeoutError(key)
		}
	}
}

func (r *RedisLocker) unlockFunc(redisKey, token string) Unlock {
	var once sync.Once
	return func() {
		once.Do(func() { r.release(redisKey, token) })
	}
}

func (r *RedisLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, r.rdb, []string{redisKey}, token).Err(); err != nil {
		// The lease still expires after TTL.
		log.Error().Err(err).Str("lock_key", redisKey).Msg("Failed to release lock")
	}
}
