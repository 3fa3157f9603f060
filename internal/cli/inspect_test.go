package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	env := testEnv(t)

	var out bytes.Buffer
	require.NoError(t, Validate(context.Background(), env, Stdin, strings.NewReader(patrolGraph), &out))
	assert.Contains(t, out.String(), "Graph is valid!")

	out.Reset()
	err := Validate(context.Background(), env, Stdin, strings.NewReader(`{"nodes": [], "edges": []}`), &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "[no-start]")
}

func TestGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Graph(context.Background(), testEnv(t), Stdin, true, strings.NewReader(patrolGraph), &out))

	assert.True(t, strings.HasPrefix(out.String(), "graph TD\n"))
	assert.Contains(t, out.String(), "walk[[")
	assert.Contains(t, out.String(), "classDef unreachable")
}

func TestCatalog(t *testing.T) {
	env := testEnv(t)

	var out bytes.Buffer
	require.NoError(t, Catalog(env, "", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 40, "header plus one line per function")
	assert.True(t, strings.HasPrefix(lines[0], "CATEGORY"))

	out.Reset()
	require.NoError(t, Catalog(env, "Sleep_tick", &out))
	assert.True(t, strings.HasPrefix(out.String(), "API.Sleep_tick("))

	assert.Error(t, Catalog(env, "Nope", &out))
}
