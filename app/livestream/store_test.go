package livestream_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/app/livestream"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	s := livestream.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Store(ctx, "a"))
	require.NoError(t, s.Store(ctx, "b"))
	assert.Equal(t, []string{"a", "b"}, s.Values())

	boom := errors.New("boom")
	s.FailWith(boom)
	assert.ErrorIs(t, s.Store(ctx, "c"), boom)

	s.FailWith(nil)
	require.NoError(t, s.Store(ctx, "d"))
	assert.Equal(t, []string{"a", "b", "d"}, s.Values())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, s.Store(cancelled, "e"), context.Canceled)
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(livestream.Migrations(), "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_create_data_values.sql")
}
