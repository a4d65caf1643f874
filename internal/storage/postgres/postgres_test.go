package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/bookinv/internal/inventory"
	"github.com/JonMunkholm/bookinv/internal/storage/storetest"
)

// Set TEST_DATABASE_URL to a disposable database to run these tests.
func testURL(t *testing.T) string {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return url
}

func TestStoreContract(t *testing.T) {
	url := testURL(t)

	storetest.Run(t, func(t *testing.T) inventory.Store {
		ctx := context.Background()
		s, err := Open(ctx, PoolConfig{URL: url, MaxConns: 4})
		require.NoError(t, err)
		_, err = s.pool.Exec(ctx, `TRUNCATE books RESTART IDENTITY`)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestOpenUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, PoolConfig{URL: "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"})
	require.Error(t, err)
	require.ErrorIs(t, err, inventory.ErrStoreUnavailable)
}

func TestOpenBadURL(t *testing.T) {
	_, err := Open(context.Background(), PoolConfig{URL: "::not a url::"})
	require.Error(t, err)
}
