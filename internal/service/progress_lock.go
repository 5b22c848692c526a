package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrLockTimeout indicates the progress lock could not be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for progress lock")

const lockRetryInterval = 20 * time.Millisecond

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another writer is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// ProgressLocker serialises progress writers for a single key.
type ProgressLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NewProgressLocker returns a Redis backed lock when a client is available and
// an in-process keyed mutex otherwise.
func NewProgressLocker(client *redis.Client, ttl time.Duration, logger zerolog.Logger) ProgressLocker {
	if client == nil {
		return newLocalLocker()
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisLocker{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "progress_lock").Logger(),
	}
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.ttl)

	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire progress lock: %w", err)
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("failed to release progress lock")
		}
	}
	return release, nil
}

type localLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedMutex
}

type keyedMutex struct {
	mu   sync.Mutex
	refs int
}

func newLocalLocker() *localLocker {
	return &localLocker{locks: make(map[string]*keyedMutex)}
}

func (l *localLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyedMutex{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}, nil
}

func progressLockKey(userID, courseID uint) string {
	return fmt.Sprintf("lock:progress:user:%d:course:%d", userID, courseID)
}
