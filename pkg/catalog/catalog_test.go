package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 39, c.Len())

	fn, ok := c.Lookup("Read_LoopyLoop")
	require.True(t, ok)
	assert.Equal(t, "Utility", fn.Category)
	require.NotNil(t, fn.Returns)
	assert.Equal(t, "boolean", fn.Returns.Type)

	npc, ok := c.Lookup("DoAction_NPC")
	require.True(t, ok)
	require.Len(t, npc.Params, 6)
	assert.True(t, npc.Params[0].Required)
	assert.False(t, npc.Params[4].Required)
	assert.Equal(t, "table|number", npc.Params[2].Type)

	_, ok = c.Lookup("Nope")
	assert.False(t, ok)
}

func TestList_SortedByCategoryThenName(t *testing.T) {
	c := New()
	c.Register(FunctionSpec{Name: "b", Category: "Z"})
	c.Register(FunctionSpec{Name: "c", Category: "A"})
	c.Register(FunctionSpec{Name: "a", Category: "A"})

	var names []string
	for _, fn := range c.List() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"a", "c", "b"}, names)
}

func TestTemplate(t *testing.T) {
	c := Default()
	fn, err := c.Template("DoAction_Surge_Tile")
	require.NoError(t, err)
	assert.Equal(t, domain.Function{Name: "DoAction_Surge_Tile", Params: []domain.Param{
		{Name: "normal_tile", Hint: "WPOINT"},
		{Name: "errorrange", Hint: "number"},
	}}, fn)

	fn, err = c.Template("BankOpen2")
	require.NoError(t, err)
	assert.Empty(t, fn.Params)

	_, err = c.Template("Unknown")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
functions:
  - name: Jump
    params:
      - name: height
        type: number
        required: true
`), 0o644))
	c, err := Load(yamlPath)
	require.NoError(t, err)
	fn, ok := c.Lookup("Jump")
	require.True(t, ok)
	assert.Equal(t, "height", fn.Params[0].Name)

	jsonPath := filepath.Join(dir, "api.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"functions":[{"name":"Duck"}]}`), 0o644))
	c, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"functions":[{"category":"x"}]}`), 0o644))
	_, err = Load(badPath)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalog_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Register(FunctionSpec{Name: "Fn"})
			c.List()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, c.Len())
}
