package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lista-app/lista/internal/storage/compliance"
)

// TestPostgresStoreCompliance runs the shared storage contract suite against
// a real database. Skipped unless LISTA_TEST_DATABASE_DSN is set.
func TestPostgresStoreCompliance(t *testing.T) {
	dsn := os.Getenv("LISTA_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("set LISTA_TEST_DATABASE_DSN to run postgres integration tests")
	}

	ctx := context.Background()
	store, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	compliance.RunStorageComplianceTest(t, func() (compliance.Stores, func()) {
		_, err := store.Pool().Exec(ctx, "TRUNCATE TABLE list_items, lists, users CASCADE")
		require.NoError(t, err)
		return store, func() {}
	})
}
