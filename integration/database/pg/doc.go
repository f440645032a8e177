// Package pg manages PostgreSQL connectivity on top of pgx.
//
// Connect builds a pgxpool.Pool from Config, applies pool limits and pings
// the server, retrying with exponential backoff. Authentication failures and
// unknown databases fail immediately.
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// Migrator wraps goose with a Postgres session lock so that several
// instances starting together apply each migration once:
//
//	m, err := pg.NewMigrator(pool, migrations, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer m.Close()
//	err = m.Up(ctx)
//
// Repositories call QuerierFrom to join a transaction placed on the context
// with WithTx and fall back to the pool otherwise.
package pg
