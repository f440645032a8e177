//go:build integration

package livestream_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/azim128/LiveDataStream/app/livestream"
	"github.com/azim128/LiveDataStream/integration/database/pg"
)

func setupPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "postgres:18-alpine",
		postgres.WithDatabase("livestream_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresBackedApp(t *testing.T) {
	connStr := setupPostgres(t)
	ctx := context.Background()

	cfg := testConfig()
	cfg.StorageDriver = livestream.StoragePostgres
	cfg.DB = pg.Config{
		ConnectionString: connStr,
		MaxOpenConns:     4,
		RetryAttempts:    3,
		RetryInterval:    200 * time.Millisecond,
		MigrationsTable:  "schema_migrations",
		MigrateOnStart:   true,
	}

	app, err := livestream.New(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	sub := subscribe(t, app)

	rec := post(t, app.Handler(), "/add-value", `{"value":"persisted"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "persisted", nextMessage(t, sub))

	assert.Equal(t, http.StatusOK, get(t, app.Handler(), "/health/ready").Code)

	pool, err := pg.Connect(ctx, cfg.DB, nil)
	require.NoError(t, err)
	defer pool.Close()

	var value string
	require.NoError(t, pool.QueryRow(ctx, "SELECT value FROM data_values ORDER BY id DESC LIMIT 1").Scan(&value))
	assert.Equal(t, "persisted", value)

	// A value stored inside a rolled back transaction never lands.
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	store := livestream.NewPostgresStore(pool)
	require.NoError(t, store.Store(pg.WithTx(ctx, tx), "rolled back"))
	require.NoError(t, tx.Rollback(ctx))

	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM data_values").Scan(&n))
	assert.Equal(t, 1, n)
}
