package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/flowgen/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Defaults(t *testing.T) {
	env, err := Setup(Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.NoError(t, err)

	assert.Equal(t, config.Default(), env.Config)
	assert.Equal(t, 39, env.Catalog.Len())
	assert.NotNil(t, env.Generator)
}

func TestSetup_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "flowgen.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: warn\nstore:\n  driver: memory\n"), 0644))

	catPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(catPath, []byte("functions:\n  - name: Jump\n    category: Movement\n"), 0644))

	env, err := Setup(Options{ConfigPath: cfgPath, CatalogPath: catPath, Strict: true})
	require.NoError(t, err)

	assert.True(t, env.Config.Strict)
	assert.Equal(t, config.DriverMemory, env.Config.Store.Driver)
	assert.Equal(t, 1, env.Catalog.Len())
	_, ok := env.Catalog.Lookup("Jump")
	assert.True(t, ok)
}

func TestSetup_Errors(t *testing.T) {
	dir := t.TempDir()

	badLevel := filepath.Join(dir, "level.yaml")
	require.NoError(t, os.WriteFile(badLevel, []byte("log_level: loud\n"), 0644))
	_, err := Setup(Options{ConfigPath: badLevel})
	assert.Error(t, err)

	_, err = Setup(Options{ConfigPath: filepath.Join(dir, "none.yaml"), CatalogPath: filepath.Join(dir, "none.json")})
	assert.Error(t, err)
}
