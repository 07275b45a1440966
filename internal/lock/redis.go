package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/logger"
)

// unlockScript deletes the key only while it still holds our token, so an
// expired lock taken over by another replica is never released by us.
const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// RedisClient is the subset of *redis.Client used by Redis.
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// Redis is a Locker backed by SET NX with a TTL.
type Redis struct {
	client RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedisClient opens a client; callers own Close.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// NewRedis returns a Locker whose keys are "<prefix>:<key>" and expire after
// ttl if the holder dies without releasing.
func NewRedis(client RedisClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) wrapKey(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	k := r.wrapKey(key)
	token := uuid.NewString()

	ok, err := r.client.SetNX(ctx, k, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w: %w", k, errs.ErrRepository, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, errs.ErrFitInProgress)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := r.client.Eval(ctx, unlockScript, []string{k}, token).Err(); err != nil {
				logger.L().Warn().Str("key", k).Err(err).Msg("release lock failed")
			}
		})
	}, nil
}
