package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	redsyncgoredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"

	"github.com/kbukum/rediskit/errors"
)

// LockOption customises a Lock.
type LockOption func(*lockOptions)

type lockOptions struct {
	tries      int
	retryDelay time.Duration
}

// WithLockTries sets how many acquisition attempts Acquire makes (default 1).
func WithLockTries(n int) LockOption {
	return func(o *lockOptions) {
		if n > 0 {
			o.tries = n
		}
	}
}

// WithLockRetryDelay sets the pause between acquisition attempts.
func WithLockRetryDelay(d time.Duration) LockOption {
	return func(o *lockOptions) {
		if d > 0 {
			o.retryDelay = d
		}
	}
}

// Lock is a redsync mutex stored under a single key on the client's server.
// Each acquisition writes a fresh UUID, so only the holder can release or
// extend it. A Lock value is not reentrant.
type Lock struct {
	client *Client
	name   string
	ttl    time.Duration
	mutex  *redsync.Mutex

	mu   sync.Mutex
	held bool
}

// NewLock creates a lock on key name that expires after ttl unless extended.
func (c *Client) NewLock(name string, ttl time.Duration, opts ...LockOption) *Lock {
	o := lockOptions{tries: 1, retryDelay: ttl / 10}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retryDelay <= 0 {
		o.retryDelay = 50 * time.Millisecond
	}

	rs := redsync.New(redsyncgoredis.NewPool(c.rdb))
	mutex := rs.NewMutex(name,
		redsync.WithExpiry(ttl),
		redsync.WithTries(o.tries),
		redsync.WithRetryDelay(o.retryDelay),
		redsync.WithGenValueFunc(func() (string, error) {
			return uuid.NewString(), nil
		}),
	)
	return &Lock{client: c, name: name, ttl: ttl, mutex: mutex}
}

// Name returns the lock key.
func (l *Lock) Name() string { return l.name }

// Value returns the token of the current acquisition, empty if never acquired.
func (l *Lock) Value() string { return l.mutex.Value() }

// Until returns when the current acquisition expires.
func (l *Lock) Until() time.Time { return l.mutex.Until() }

// Held reports whether this handle believes it holds the lock.
func (l *Lock) Held() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held
}

// Acquire takes the lock. Contention yields a CONFLICT error.
func (l *Lock) Acquire(ctx context.Context) error {
	if err := l.client.check("lock.acquire"); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return errors.Conflict(fmt.Sprintf("lock %s already held by this handle", l.name)).WithDetail("lock", l.name)
	}
	if err := l.mutex.LockContext(ctx); err != nil {
		return l.classify(ctx, "acquire", err)
	}
	l.held = true
	l.client.log.Debug("Lock acquired", map[string]interface{}{"lock": l.name, "ttl": l.ttl.String()})
	return nil
}

// Release frees the lock. Releasing a lock that expired or was taken over
// yields a CONFLICT error; releasing a lock never acquired is a no-op.
func (l *Lock) Release(ctx context.Context) error {
	if err := l.client.check("lock.release"); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return nil
	}
	l.held = false

	ok, err := l.mutex.UnlockContext(ctx)
	if err != nil {
		return l.classify(ctx, "release", err)
	}
	if !ok {
		return l.lost("release")
	}
	l.client.log.Debug("Lock released", map[string]interface{}{"lock": l.name})
	return nil
}

// Extend resets the lock's ttl. It fails with CONFLICT when the lock is no
// longer held by this handle.
func (l *Lock) Extend(ctx context.Context) error {
	if err := l.client.check("lock.extend"); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return l.lost("extend")
	}
	ok, err := l.mutex.ExtendContext(ctx)
	if err != nil || !ok {
		l.held = false
		if err == nil {
			return l.lost("extend")
		}
		return l.classify(ctx, "extend", err)
	}
	return nil
}

func (l *Lock) lost(op string) error {
	return errors.Conflict(fmt.Sprintf("lock %s is not held", l.name)).
		WithDetails(map[string]any{"lock": l.name, "operation": op})
}

// classify separates contention from transport failures. When redsync's
// error is ambiguous, a key that still exists means someone else holds it.
func (l *Lock) classify(ctx context.Context, op string, err error) error {
	var taken *redsync.ErrTaken
	contended := stderrors.Is(err, redsync.ErrFailed) ||
		stderrors.Is(err, redsync.ErrExtendFailed) ||
		stderrors.Is(err, redsync.ErrLockAlreadyExpired) ||
		stderrors.As(err, &taken)

	if !contended && ctx.Err() == nil {
		if n, existsErr := l.client.rdb.Exists(ctx, l.name).Result(); existsErr == nil && n > 0 {
			contended = true
		}
	}
	if contended {
		return errors.Conflict(fmt.Sprintf("lock %s is held elsewhere", l.name)).
			WithCause(err).
			WithDetails(map[string]any{"lock": l.name, "operation": op})
	}
	return remoteError("lock."+op, l.name, err)
}
