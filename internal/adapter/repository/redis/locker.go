package redis

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iho/bookkeeper/internal/domain"
	"github.com/iho/bookkeeper/internal/usecase"
)

// releaseScript deletes the lock key only when it still holds our token, so
// a lock that expired and was re-acquired by another holder is never released
// from under them.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
end
return 0`)

// AccountLocker implements usecase.AccountLocker with a Redis SET NX lock.
// Each acquisition stores a unique token; release is compare-and-delete.
type AccountLocker struct {
	client        *redis.Client
	prefix        string
	retryInterval time.Duration
	maxWait       time.Duration
}

// NewAccountLocker creates a new AccountLocker.
func NewAccountLocker(client *redis.Client) *AccountLocker {
	return &AccountLocker{
		client:        client,
		prefix:        "lock:",
		retryInterval: 50 * time.Millisecond,
		maxWait:       5 * time.Second,
	}
}

// Acquire polls SET NX until the lock is held. It returns
// domain.ErrLockNotAcquired once maxWait elapses, and the context error
// when the context expires first.
func (l *AccountLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (usecase.Unlock, error) {
	token := ulid.Make().String()
	lockKey := l.prefix + key
	deadline := time.Now().Add(l.maxWait)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
		if err != nil {
			return nil, err
		}

		if ok {
			return func(ctx context.Context) error {
				return releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err()
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, domain.ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
}
