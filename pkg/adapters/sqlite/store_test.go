package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/flowgen/pkg/adapters/sqlite"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/dsl"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "scripts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ports.RunScriptStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scripts.db")

	store, err := sqlite.New(path)
	require.NoError(t, err)
	saved := domain.NewScript("persist", *dsl.Initial())
	require.NoError(t, store.Save(ctx, saved))
	require.NoError(t, store.Close())

	reopened, err := sqlite.New(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, loaded.ID)
	assert.Len(t, loaded.Graph.Nodes, 3)
}
