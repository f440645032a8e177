package livestream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/health"
	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/core/metrics"
	"github.com/azim128/LiveDataStream/core/response"
	"github.com/azim128/LiveDataStream/core/router"
	"github.com/azim128/LiveDataStream/core/server"
	"github.com/azim128/LiveDataStream/integration/database/pg"
	"github.com/azim128/LiveDataStream/integration/database/redis"
	pubsub "github.com/azim128/LiveDataStream/integration/pubsub/redis"
	"github.com/azim128/LiveDataStream/middleware"
	"github.com/azim128/LiveDataStream/pkg/broadcast"
	"github.com/azim128/LiveDataStream/pkg/ratelimiter"
)

// Streams stay open for as long as the client listens, so they are never
// reported as slow.
const noSlowThreshold = time.Duration(math.MaxInt64)

// App is the live value stream service: a value store, a broadcaster and the
// HTTP surface around them.
type App struct {
	cfg         Config
	log         *slog.Logger
	registry    *prometheus.Registry
	broadcaster *broadcast.Broadcaster
	store       ValueStore
	notifier    Notifier
	relay       *pubsub.Relay
	redis       goredis.UniversalClient
	limiter     *ratelimiter.Limiter
	checks      []health.Check
	router      router.Router[*router.Context]
	closers     []func()
}

type Option func(*App) error

func WithLogger(log *slog.Logger) Option {
	return func(a *App) error {
		if log == nil {
			return errors.New("logger cannot be nil")
		}
		a.log = log
		return nil
	}
}

// WithStore replaces the store selected by STORAGE_DRIVER.
func WithStore(store ValueStore) Option {
	return func(a *App) error {
		if store == nil {
			return errors.New("store cannot be nil")
		}
		a.store = store
		return nil
	}
}

// WithRegistry sets the Prometheus registry served on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) error {
		if reg == nil {
			return errors.New("registry cannot be nil")
		}
		a.registry = reg
		return nil
	}
}

// WithRedisClient uses client for the cross-instance relay instead of
// connecting to REDIS_URL.
func WithRedisClient(client goredis.UniversalClient) Option {
	return func(a *App) error {
		if client == nil {
			return errors.New("redis client cannot be nil")
		}
		a.redis = client
		return nil
	}
}

// New connects the configured dependencies and builds the router. Call
// Close when done, or use Run which closes on exit.
func New(ctx context.Context, cfg Config, opts ...Option) (*App, error) {
	a := &App{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.store == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if a.registry == nil {
		a.registry = metrics.NewRegistry()
	}

	a.broadcaster = broadcast.New(
		broadcast.WithLogger(a.log),
		broadcast.WithObserver(metrics.NewBroadcastMetrics(a.registry)),
		broadcast.WithQueueLimit(cfg.BroadcastQueueLimit),
	)
	a.closers = append(a.closers, func() { _ = a.broadcaster.Close() })

	if err := a.setup(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.router = a.routes()
	return a, nil
}

func (a *App) setup(ctx context.Context) error {
	if a.store == nil {
		switch a.cfg.StorageDriver {
		case StorageMemory:
			a.store = NewMemoryStore()
		default:
			pool, err := pg.Connect(ctx, a.cfg.DB, a.log)
			if err != nil {
				return err
			}
			a.closers = append(a.closers, pool.Close)

			if a.cfg.DB.MigrateOnStart {
				if err := pg.Migrate(ctx, pool, Migrations(), a.cfg.DB, a.log); err != nil {
					return err
				}
			}
			a.store = NewPostgresStore(pool)
			a.checks = append(a.checks, health.NewCheck("postgres", pg.Healthcheck(pool)))
		}
	}

	if a.redis == nil && a.cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, a.cfg.Redis, a.log)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.redis = client
	}

	if a.redis != nil {
		channel := a.cfg.BroadcastChannel
		if channel == "" {
			channel = pubsub.DefaultChannel
		}
		relay, err := pubsub.New(a.redis, channel, a.broadcaster, pubsub.WithLogger(a.log))
		if err != nil {
			return err
		}
		a.relay = relay
		a.notifier = relayNotifier{relay: relay, local: a.broadcaster, log: a.log}
		a.checks = append(a.checks, health.NewCheck("redis", redis.Healthcheck(a.redis)))
	} else {
		a.notifier = localNotifier{b: a.broadcaster}
	}

	if a.cfg.RateLimitRPS > 0 {
		limiter, err := ratelimiter.New(ratelimiter.Config{
			RPS:   a.cfg.RateLimitRPS,
			Burst: max(a.cfg.RateLimitBurst, 1),
		}, ratelimiter.WithLogger(a.log))
		if err != nil {
			return err
		}
		a.limiter = limiter
	}

	return nil
}

func (a *App) routes() router.Router[*router.Context] {
	httpMetrics := metrics.NewHTTPMetrics(a.registry)

	security := middleware.APISecurity
	security.IsDevelopment = a.cfg.Env == "development"

	r := router.New[*router.Context](
		router.WithErrorHandler[*router.Context](response.JSONErrorHandler[*router.Context]),
		router.WithLogger[*router.Context](a.log),
		router.WithHTTPMiddleware[*router.Context](
			chimw.StripSlashes,
			middleware.CORS(middleware.CORSConfig{AllowOrigins: a.cfg.CORSAllowOrigins}),
			httpMetrics.Middleware,
		),
		router.WithMiddleware[*router.Context](
			middleware.RequestID[*router.Context](),
			middleware.ClientIP[*router.Context](),
			middleware.SecurityHeadersWithConfig[*router.Context](security),
		),
	)

	r.Get("/health", health.Liveness[*router.Context])
	r.Get("/health/ready", health.Readiness[*router.Context](a.log, a.checks...))
	r.Mount("/metrics", metrics.Handler(a.registry))

	r.Group(func(r router.Router[*router.Context]) {
		r.Use(middleware.LoggingWithLogger[*router.Context](a.log))

		submit := []handler.Middleware[*router.Context]{
			middleware.BodyLimitWithSize[*router.Context](a.bodyLimit()),
		}
		if a.limiter != nil {
			submit = append(submit, middleware.RateLimit[*router.Context](middleware.RateLimitConfig{
				Limiter:    a.limiter,
				SetHeaders: true,
			}))
		}
		r.With(submit...).Post("/add-value", a.submit)
	})

	r.Group(func(r router.Router[*router.Context]) {
		r.Use(middleware.LoggingWithConfig[*router.Context](middleware.LoggingConfig{
			Logger:               a.log,
			Component:            "stream",
			LogRequest:           true,
			SlowRequestThreshold: noSlowThreshold,
		}))
		r.Get("/events", a.events)
		r.Get("/ws", a.websocket)
	})

	return r
}

func (a *App) bodyLimit() int64 {
	if a.cfg.BodyLimit > 0 {
		return a.cfg.BodyLimit
	}
	return middleware.DefaultBodyLimit
}

// Handler returns the HTTP handler serving every route.
func (a *App) Handler() http.Handler {
	return a.router
}

// Broadcaster exposes the broadcaster feeding the event streams.
func (a *App) Broadcaster() *broadcast.Broadcaster {
	return a.broadcaster
}

// Run serves HTTP and runs the relay and the rate limiter cleanup until ctx
// is done or one of them fails, then releases every dependency. Shutting
// the server down closes the broadcaster so open streams end.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	srv, err := server.NewFromConfig(a.cfg.Server,
		server.WithLogger(a.log),
		server.WithOnShutdown(func() { _ = a.broadcaster.Close() }),
	)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, a.Handler()))
	if a.relay != nil {
		g.Go(a.relay.Start(ctx))
	}
	if a.limiter != nil {
		g.Go(a.limiter.Run(ctx))
	}

	a.log.InfoContext(ctx, "livestream started",
		slog.String("addr", a.cfg.Server.Addr),
		slog.String("storage", a.storageName()),
		slog.Bool("relay", a.relay != nil))

	if err := g.Wait(); err != nil {
		a.log.ErrorContext(ctx, "livestream stopped", logger.Error(err))
		return err
	}
	a.log.Info("livestream stopped")
	return nil
}

func (a *App) storageName() string {
	switch a.store.(type) {
	case *PostgresStore:
		return StoragePostgres
	case *MemoryStore:
		return StorageMemory
	default:
		return "custom"
	}
}

// Close closes the broadcaster and releases connections in reverse order of
// acquisition. It is safe to call more than once.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
