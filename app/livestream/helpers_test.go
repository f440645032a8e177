package livestream_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/azim128/LiveDataStream/app/livestream"
	"github.com/azim128/LiveDataStream/pkg/broadcast"
)

func testConfig() livestream.Config {
	return livestream.Config{
		AppName:          "livestream-test",
		StorageDriver:    livestream.StorageMemory,
		CORSAllowOrigins: []string{"*"},
		BodyLimit:        1024,
	}
}

func newApp(t *testing.T, mutate ...func(*livestream.Config)) (*livestream.App, *livestream.MemoryStore) {
	t.Helper()

	cfg := testConfig()
	for _, fn := range mutate {
		fn(&cfg)
	}

	store := livestream.NewMemoryStore()
	app, err := livestream.New(context.Background(), cfg, livestream.WithStore(store))
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app, store
}

// newServer serves app over a real listener. Streams are ended by closing
// the app before the server waits for outstanding requests.
func newServer(t *testing.T, app *livestream.App) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		app.Close()
		srv.Close()
	})
	return srv
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func subscribe(t *testing.T, app *livestream.App) *broadcast.Subscription {
	t.Helper()

	sub, err := app.Broadcaster().Subscribe()
	require.NoError(t, err)
	t.Cleanup(sub.Close)
	return sub
}

func nextMessage(t *testing.T, sub *broadcast.Subscription) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := sub.Next(ctx)
	require.NoError(t, err)
	return msg
}

func requireNoMessage(t *testing.T, sub *broadcast.Subscription) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	msg, err := sub.Next(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded, "unexpected message %q", msg)
}

// openStream connects to /events and returns a reader over the body.
func openStream(t *testing.T, ctx context.Context, srv *httptest.Server) (*http.Response, *bufio.Reader) {
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	require.Equal(t, http.StatusOK, resp.StatusCode)
	return resp, bufio.NewReader(resp.Body)
}

// readEvent reads one SSE event, up to and including its blank line.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()

	var sb strings.Builder
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		sb.WriteString(line)
		if line == "\n" {
			return sb.String()
		}
	}
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
