package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("bay lock not acquired")
)

// Locker guards the availability re-check that runs before an appointment
// write. One lock per (date, bay) pair: two concurrent bookings on the same
// bay-day serialize, while other days and the other bay stay unaffected.
type Locker interface {
	WithBayLock(ctx context.Context, date, bay string, fn func(ctx context.Context) error) error
}

type redisBayLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBayLocker creates a locker that uses a per bay-day Redis key.
func NewRedisBayLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisBayLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisBayLocker) WithBayLock(ctx context.Context, date, bay string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:bay:%s:%s", date, bay)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire bay lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisBayLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release bay lock: %w", err)
	}
	return nil
}
