package livestream

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"github.com/azim128/LiveDataStream/integration/database/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the schema migrations for the value store.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// ValueStore persists submitted values.
type ValueStore interface {
	Store(ctx context.Context, value string) error
}

const insertValue = `INSERT INTO data_values (value) VALUES ($1)`

// PostgresStore writes values to the data_values table.
type PostgresStore struct {
	db pg.Querier
}

func NewPostgresStore(db pg.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// Store inserts value, joining a transaction carried by ctx if there is one.
func (s *PostgresStore) Store(ctx context.Context, value string) error {
	if _, err := pg.QuerierFrom(ctx, s.db).Exec(ctx, insertValue, value); err != nil {
		return fmt.Errorf("store value: %w", err)
	}
	return nil
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	values []string
	err    error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Store(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return fmt.Errorf("store value: %w", s.err)
	}
	s.values = append(s.values, value)
	return nil
}

// Values returns a copy of the stored values in insertion order.
func (s *MemoryStore) Values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.values)
}

// FailWith makes every following Store return err. A nil err restores
// normal operation.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
