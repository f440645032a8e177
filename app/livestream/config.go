package livestream

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/azim128/LiveDataStream/core/logger"
	"github.com/azim128/LiveDataStream/core/server"
	"github.com/azim128/LiveDataStream/integration/database/pg"
	"github.com/azim128/LiveDataStream/integration/database/redis"
	"github.com/azim128/LiveDataStream/middleware"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Server server.Config
	DB     pg.Config
	Redis  redis.Config

	AppName   string `env:"APP_NAME" envDefault:"livestream"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"LOG_FILE"`

	// LOG_FILE rotation. Sizes are in megabytes, ages in days.
	LogFileMaxSize     int  `env:"LOG_FILE_MAX_SIZE" envDefault:"100"`
	LogFileMaxBackups  int  `env:"LOG_FILE_MAX_BACKUPS" envDefault:"10"`
	LogFileMaxAge      int  `env:"LOG_FILE_MAX_AGE" envDefault:"0"`
	LogFileRotateDaily bool `env:"LOG_FILE_ROTATE_DAILY" envDefault:"true"`

	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	BroadcastChannel    string        `env:"BROADCAST_CHANNEL" envDefault:"livestream:values"`
	BroadcastQueueLimit int           `env:"BROADCAST_QUEUE_LIMIT" envDefault:"0"`
	SSEKeepAlive        time.Duration `env:"SSE_KEEPALIVE" envDefault:"30s"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*" envSeparator:","`
	RateLimitRPS     float64  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst   int      `env:"RATE_LIMIT_BURST" envDefault:"40"`
	BodyLimit        int64    `env:"HTTP_BODY_LIMIT" envDefault:"1048576"`
}

// Validate checks cross-field constraints the env tags cannot express.
func (c Config) Validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.ConnectionString == "" {
			return fmt.Errorf("%w: PG_CONN_URL is required for the postgres storage driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_DRIVER %q", ErrInvalidConfig, c.StorageDriver)
	}
	if c.BroadcastQueueLimit < 0 {
		return fmt.Errorf("%w: BROADCAST_QUEUE_LIMIT must be >= 0", ErrInvalidConfig)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("%w: rate limit values must be >= 0", ErrInvalidConfig)
	}
	if c.Redis.Enabled() && c.BroadcastChannel == "" {
		return fmt.Errorf("%w: BROADCAST_CHANNEL is required when REDIS_URL is set", ErrInvalidConfig)
	}
	return nil
}

// NewLogger builds the process logger from the LOG_* settings. LOG_FILE is
// written in addition to stdout and rotated by size and, unless disabled, at
// midnight. The returned closer releases LOG_FILE and is a no-op without one.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		f := openLogFile(cfg)
		out = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithOutput(out),
		logger.WithAttr(
			slog.String("service", cfg.AppName),
			slog.String("env", cfg.Env),
		),
		logger.WithContextExtractors(middleware.RequestIDExtractor),
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "", "text":
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("%w: unknown LOG_FORMAT %q", ErrInvalidConfig, cfg.LogFormat)
	}

	return logger.New(opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
