package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 25 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token, so an
// expired holder cannot release a lock someone else has since taken.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// KeyLocker is a ports.KeyLocker shared by every API replica.
// Key format: lock:<key>
type KeyLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	log    zerolog.Logger
}

func NewKeyLocker(client redis.UniversalClient, log zerolog.Logger) *KeyLocker {
	return &KeyLocker{client: client, ttl: lockTTL, log: log}
}

// Lock spins on SET NX until the key is acquired or ctx is done.
func (l *KeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := lockKey(key)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", k, err)
		}
		if ok {
			break
		}

		t := time.NewTimer(lockRetryWait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, fmt.Errorf("acquire lock %s: %w", k, ctx.Err())
		case <-t.C:
		}
	}

	return func() {
		// Release must run even if the request context is already cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{k}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.log.Warn().Err(err).Str("key", k).Msg("lock release failed, waiting for ttl")
		}
	}, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
