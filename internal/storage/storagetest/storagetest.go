// Package storagetest opens throwaway in-memory databases for tests.
package storagetest

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/PerryRichardson/storefront/internal/storage"
)

var seq atomic.Int64

// Open returns a migrated sqlite client backed by a memory database unique
// to the calling test. The client closes when the test finishes.
func Open(t *testing.T) *storage.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:storagetest%d?mode=memory&cache=shared", seq.Add(1))

	client, err := storage.Open(storage.Config{Dialect: "sqlite", DSN: dsn})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}
