package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const patrolGraph = `{
  "nodes": [
    {"id": "start", "type": "startNode", "data": {}},
    {"id": "walk", "type": "functionNode", "data": {"functionName": "Sleep_tick", "parameters": [{"name": "count", "value": "2", "type": "number"}]}},
    {"id": "end", "type": "endNode", "data": {}}
  ],
  "edges": [
    {"source": "start", "target": "walk"},
    {"source": "walk", "target": "end"}
  ]
}`

const patrolScript = "local API = require(\"api\")\n\n" +
	"-- Main Script\n" +
	"API.Sleep_tick(2)\n" +
	"-- End of script\n"

func testEnv(t *testing.T, opts ...func(*Options)) *Env {
	t.Helper()
	o := Options{ConfigPath: filepath.Join(t.TempDir(), "flowgen.yaml")}
	for _, fn := range opts {
		fn(&o)
	}
	env, err := Setup(o)
	require.NoError(t, err)
	return env
}

func TestGenerate_StdinToStdout(t *testing.T) {
	var out bytes.Buffer
	err := Generate(context.Background(), testEnv(t), GenerateOptions{
		Input:  Stdin,
		Stdin:  strings.NewReader(patrolGraph),
		Stdout: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, patrolScript, out.String())
}

func TestGenerate_FileToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "patrol.json")
	out := filepath.Join(dir, "build", "patrol.lua")
	require.NoError(t, os.WriteFile(in, []byte(patrolGraph), 0644))

	err := Generate(context.Background(), testEnv(t), GenerateOptions{Input: in, Output: out})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, patrolScript, string(data))

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestGenerate_Errors(t *testing.T) {
	env := testEnv(t)

	err := Generate(context.Background(), env, GenerateOptions{Input: filepath.Join(t.TempDir(), "nope.json")})
	assert.Error(t, err)

	err = Generate(context.Background(), env, GenerateOptions{Input: Stdin, Stdin: strings.NewReader("{broken"), Stdout: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestGenerate_StrictFlag(t *testing.T) {
	doc := `{"nodes": [{"id": "s", "type": "startNode"}, {"id": "x", "type": "teleportNode"}], "edges": []}`

	err := Generate(context.Background(), testEnv(t), GenerateOptions{Input: Stdin, Stdin: strings.NewReader(doc), Stdout: &bytes.Buffer{}})
	assert.NoError(t, err)

	strict := testEnv(t, func(o *Options) { o.Strict = true })
	err = Generate(context.Background(), strict, GenerateOptions{Input: Stdin, Stdin: strings.NewReader(doc), Stdout: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestWatch_RequiresFile(t *testing.T) {
	err := Watch(context.Background(), testEnv(t), GenerateOptions{Input: Stdin})
	assert.Error(t, err)
}

func TestWatch_RegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "patrol.json")
	out := filepath.Join(t.TempDir(), "patrol.lua")
	require.NoError(t, os.WriteFile(in, []byte(patrolGraph), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, testEnv(t), GenerateOptions{Input: in, Output: out, Stderr: &bytes.Buffer{}})
	}()

	readOut := func() string {
		data, _ := os.ReadFile(out)
		return string(data)
	}
	require.Eventually(t, func() bool { return readOut() == patrolScript }, 2*time.Second, 10*time.Millisecond)

	updated := strings.Replace(patrolGraph, `"value": "2"`, `"value": "9"`, 1)
	require.NoError(t, os.WriteFile(in, []byte(updated), 0644))
	require.Eventually(t, func() bool { return strings.Contains(readOut(), "API.Sleep_tick(9)") }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
