package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultCleanupInterval = 5 * time.Minute
	DefaultStaleAfter      = time.Hour
)

type entry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter keeps one token bucket per key in memory.
// Safe for concurrent use.
type Limiter struct {
	cfg Config

	mu      sync.Mutex
	entries map[string]*entry

	cleanupInterval time.Duration
	staleAfter      time.Duration
	logger          *slog.Logger
	now             func() time.Time

	cancel  context.CancelFunc
	running atomic.Bool
	removed atomic.Int64
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithCleanupInterval sets how often idle buckets are removed.
func WithCleanupInterval(interval time.Duration) Option {
	return func(l *Limiter) {
		l.cleanupInterval = interval
	}
}

// WithStaleAfter sets how long a bucket may sit unused before cleanup removes it.
func WithStaleAfter(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.staleAfter = d
		}
	}
}

// WithLogger sets the logger for cleanup events.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates an in-memory keyed limiter.
// Call Start (or Run) to enable background cleanup of idle keys.
func New(cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: rps=%v burst=%d", err, cfg.RPS, cfg.Burst)
	}

	l := &Limiter{
		cfg:             cfg,
		entries:         make(map[string]*entry),
		cleanupInterval: DefaultCleanupInterval,
		staleAfter:      DefaultStaleAfter,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Allow consumes one token for key.
func (l *Limiter) Allow(ctx context.Context, key string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := l.now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.entries[key] = e
	}
	e.lastAccess = now
	l.mu.Unlock()

	res := &Result{Limit: l.cfg.Burst}

	r := e.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		res.retryAfter = delay
		res.ResetAt = now.Add(delay)
		return res, nil
	}

	res.allowed = true
	tokens := e.limiter.TokensAt(now)
	res.Remaining = max(0, int(math.Floor(tokens)))
	res.ResetAt = now.Add(l.refillTime(tokens))
	return res, nil
}

// refillTime is how long until the bucket is full again.
func (l *Limiter) refillTime(tokens float64) time.Duration {
	missing := float64(l.cfg.Burst) - tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / l.cfg.RPS * float64(time.Second))
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Start removes idle buckets every cleanup interval until ctx is done or Stop is called.
// Blocking; returns the context error on exit.
func (l *Limiter) Start(ctx context.Context) error {
	if l.cleanupInterval <= 0 {
		return fmt.Errorf("%w: cleanup interval must be > 0", ErrInvalidConfig)
	}

	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.mu.Unlock()

	l.running.Store(true)
	defer l.running.Store(false)

	l.logger.DebugContext(ctx, "rate limiter cleanup started",
		slog.Duration("cleanup_interval", l.cleanupInterval))

	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := l.RemoveStale(); n > 0 {
				l.logger.DebugContext(ctx, "rate limiter buckets removed", slog.Int("count", n))
			}
		}
	}
}

// Stop ends background cleanup.
func (l *Limiter) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel == nil {
		return ErrNotStarted
	}
	l.cancel()
	l.cancel = nil
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (l *Limiter) Run(ctx context.Context) func() error {
	return func() error {
		err := l.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// RemoveStale drops buckets not used within the stale window and returns how many were removed.
func (l *Limiter) RemoveStale() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.Sub(e.lastAccess) > l.staleAfter {
			delete(l.entries, key)
			removed++
		}
	}

	l.removed.Add(int64(removed))
	return removed
}

// Healthcheck fails when cleanup is configured but not running.
func (l *Limiter) Healthcheck(context.Context) error {
	if l.cleanupInterval > 0 && !l.running.Load() {
		return errors.New("rate limiter cleanup is configured but not running")
	}
	return nil
}
