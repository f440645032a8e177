package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"

	"github.com/azim128/LiveDataStream/core/logger"
)

// MigrationStatus describes one migration known to the migrator.
type MigrationStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator applies SQL migrations from an fs.FS to the pool's database.
// Concurrent migrators across processes are serialized by a Postgres
// advisory lock.
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
	log      *slog.Logger
}

// NewMigrator builds a Migrator over fsys. Migration files must sit at the
// root of fsys; use fs.Sub for embedded subdirectories.
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS, cfg Config, log *slog.Logger) (*Migrator, error) {
	if fsys == nil {
		return nil, ErrMigrationsNotProvided
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	table := cfg.MigrationsTable
	if table == "" {
		table = "schema_migrations"
	}
	store, err := database.NewStore(database.DialectPostgres, table)
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	provider, err := goose.NewProvider("", db, fsys,
		goose.WithStore(store),
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrFailedToApplyMigrations, err)
	}

	return &Migrator{db: db, provider: provider, log: log}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	results, err := m.provider.Up(ctx)
	for _, r := range results {
		m.logResult(ctx, r)
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	if len(results) == 0 {
		m.log.InfoContext(ctx, "database schema is up to date", logger.Component("pg"))
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (m *Migrator) Down(ctx context.Context) error {
	r, err := m.provider.Down(ctx)
	if r != nil {
		m.logResult(ctx, r)
	}
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// Status lists all known migrations in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	states, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(states))
	for _, s := range states {
		out = append(out, MigrationStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

// Close releases the database/sql handle. The underlying pool stays open.
func (m *Migrator) Close() error {
	return m.db.Close()
}

func (m *Migrator) logResult(ctx context.Context, r *goose.MigrationResult) {
	attrs := []any{
		logger.Component("pg"),
		logger.Version(fmt.Sprint(r.Source.Version)),
		logger.Duration(r.Duration),
		slog.String("direction", r.Direction),
	}
	if r.Error != nil {
		m.log.ErrorContext(ctx, "migration failed", append(attrs, logger.Error(r.Error))...)
		return
	}
	m.log.InfoContext(ctx, "migration applied", attrs...)
}

// Migrate applies all pending migrations from fsys in one call.
func Migrate(ctx context.Context, pool *pgxpool.Pool, fsys fs.FS, cfg Config, log *slog.Logger) error {
	m, err := NewMigrator(pool, fsys, cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}
