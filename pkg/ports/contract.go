package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunScriptStoreContract runs a suite of tests to verify that a ScriptStore
// implementation adheres to the defined interface contract.
func RunScriptStoreContract(t *testing.T, store ScriptStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405")

	sample := func(name string) *domain.Script {
		b := dsl.New()
		b.Start("start").Go("check")
		b.Var("hp", "hp", "50").Typed(domain.TypeNumber)
		b.If("check", "API.GetHPrecent() < hp").Then("eat").Else("end")
		b.Call("eat", "DoAction_Ability", "Eat", "1", "0", "true")
		b.Loop("loop", "").Body("check")
		b.Comment("note", "heal when low")
		b.End("end")
		return domain.NewScript(name, *b.Build())
	}

	t.Run("Save and Load", func(t *testing.T) {
		name := prefix + "-roundtrip"
		s := sample(name)

		err := store.Save(ctx, s)
		require.NoError(t, err, "Save should not return error")
		defer func() { _ = store.Delete(ctx, name) }()

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, s.ID, loaded.ID)
		assert.Equal(t, s.Name, loaded.Name)
		assert.True(t, s.SavedAt.Equal(loaded.SavedAt), "SavedAt should survive a round trip")
		assert.Equal(t, s.Graph.Nodes, loaded.Graph.Nodes)
		assert.Equal(t, s.Graph.Edges, loaded.Graph.Edges)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		name := prefix + "-overwrite"
		require.NoError(t, store.Save(ctx, sample(name)))
		defer func() { _ = store.Delete(ctx, name) }()

		b := dsl.New()
		b.Start("start").Go("a")
		b.Call("a", "RandomSleep")
		replacement := domain.NewScript(name, *b.Build())
		require.NoError(t, store.Save(ctx, replacement))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, replacement.ID, loaded.ID)
		assert.Len(t, loaded.Graph.Nodes, 2)

		names, err := store.List(ctx)
		require.NoError(t, err)
		count := 0
		for _, n := range names {
			if n == name {
				count++
			}
		}
		assert.Equal(t, 1, count, "List should not duplicate overwritten scripts")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, prefix+"-missing")
		assert.ErrorIs(t, err, domain.ErrScriptNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		name := prefix + "-delete"
		require.NoError(t, store.Save(ctx, sample(name)))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrScriptNotFound, "Load after Delete should return ErrScriptNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Deleting twice should be a no-op")
	})

	t.Run("List Sorted", func(t *testing.T) {
		names := []string{prefix + "-list-b", prefix + "-list-a", prefix + "-list-c"}
		for _, n := range names {
			require.NoError(t, store.Save(ctx, sample(n)))
		}
		defer func() {
			for _, n := range names {
				_ = store.Delete(ctx, n)
			}
		}()

		listed, err := store.List(ctx)
		require.NoError(t, err)
		var ours []string
		for _, n := range listed {
			if n == names[0] || n == names[1] || n == names[2] {
				ours = append(ours, n)
			}
		}
		assert.Equal(t, []string{prefix + "-list-a", prefix + "-list-b", prefix + "-list-c"}, ours)
		assert.IsNonDecreasing(t, listed)
	})

	t.Run("Invalid Names", func(t *testing.T) {
		for _, name := range []string{"", "  ", "../escape", "a/b"} {
			err := store.Save(ctx, &domain.Script{Name: name})
			assert.ErrorIs(t, err, domain.ErrInvalidScriptName, "Save(%q)", name)

			_, err = store.Load(ctx, name)
			assert.ErrorIs(t, err, domain.ErrInvalidScriptName, "Load(%q)", name)
		}
	})
}
