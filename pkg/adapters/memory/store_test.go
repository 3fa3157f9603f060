package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/flowgen/pkg/adapters/memory"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/dsl"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunScriptStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	b := dsl.New()
	b.Start("start").Go("a")
	b.Call("a", "Sleep_tick", "1")
	s := domain.NewScript("iso", *b.Build())
	require.NoError(t, store.Save(ctx, s))

	// Mutate the caller's copy after saving.
	fn := s.Graph.Nodes[1].Data.(domain.Function)
	fn.Params[0].Value = "99"
	s.Graph.Nodes[0].ID = "changed"

	loaded, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "start", loaded.Graph.Nodes[0].ID)
	assert.Equal(t, "1", loaded.Graph.Nodes[1].Data.(domain.Function).Params[0].Value)

	// Mutating a loaded copy does not affect the store either.
	loaded.Graph.Nodes[1].Data.(domain.Function).Params[0].Value = "7"
	again, err := store.Load(ctx, "iso")
	require.NoError(t, err)
	assert.Equal(t, "1", again.Graph.Nodes[1].Data.(domain.Function).Params[0].Value)
}
