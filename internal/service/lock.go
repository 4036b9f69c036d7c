package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Locker grants exclusive access to a key.  The returned unlock func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

var (
	_ Locker = (*KeyedMutex)(nil)
	_ Locker = (*RedisLocker)(nil)
)

// KeyedMutex is an in-process Locker.  Entries are reference counted and
// dropped once no goroutine holds or waits for the key.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free.  The context is not consulted; waits are
// bounded by the short critical sections of other holders.
func (k *KeyedMutex) Lock(_ context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}, nil
}

// size reports the number of live entries.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// ErrLockTimeout is returned by RedisLocker when the lock could not be
// acquired before the context ended.
var ErrLockTimeout = errors.New("lock wait timed out")

// RedisLocker is a Locker shared by every API instance pointing at the same
// Redis.  The lock is a key set with NX and a TTL; release deletes it only
// when the stored token still matches.
//
// The TTL is not renewed.  It is at least ttl and, when the caller's context
// has a deadline, at least that deadline plus a second: the holder's store
// calls share the context, so the lock cannot expire while they can still
// succeed.  Handlers bound requests well below the default ttl.
type RedisLocker struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
	log    *zap.Logger
}

var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`)

func NewRedisLocker(rdb redis.Cmdable, prefix string, log *zap.Logger) *RedisLocker {
	if prefix == "" {
		prefix = "lock:showing"
	}
	return &RedisLocker{
		rdb:    rdb,
		prefix: prefix,
		ttl:    10 * time.Second,
		retry:  25 * time.Millisecond,
		wait:   5 * time.Second,
		log:    log,
	}
}

// leaseFor returns the TTL to set for a lock taken under ctx.
func (r *RedisLocker) leaseFor(ctx context.Context) time.Duration {
	ttl := r.ttl
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl) + time.Second; d > ttl {
			ttl = d
		}
	}
	return ttl
}

// Lock polls until the key is acquired or ctx is done.  Without a deadline on
// ctx the wait is bounded by r.wait.
func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	ttl := r.leaseFor(ctx)
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}
	rkey := r.prefix + ":" + key
	token := uuid.NewString()
	for {
		ok, err := r.rdb.SetNX(ctx, rkey, token, ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			var once sync.Once
			return func() {
				once.Do(func() { r.release(rkey, token) })
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(r.retry):
		}
	}
}

func (r *RedisLocker) release(rkey, token string) {
	// fresh context: the request may already be gone
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := releaseScript.Run(ctx, r.rdb, []string{rkey}, token).Int()
	switch {
	case err != nil:
		r.log.Warn("release showing lock", zap.String("key", rkey), zap.Error(err))
	case n == 0:
		r.log.Warn("showing lock expired before release", zap.String("key", rkey))
	}
}
