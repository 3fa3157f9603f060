package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/flowgen"
	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/internal/validator"
	"github.com/aretw0/flowgen/pkg/adapters/memory"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loopGraph = `
nodes:
  - id: start
    type: startNode
  - id: loop
    type: loopNode
    data:
      condition: ""
  - id: sleep
    type: functionNode
    data:
      functionName: Sleep_tick
      parameters:
        - name: count
          value: "3"
          type: number
edges:
  - source: loop
    target: sleep
    sourceHandle: loop-body
`

func TestHandleGenerate(t *testing.T) {
	s := NewServer(flowgen.New())

	resp, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"graph": loopGraph})
	require.NoError(t, err)
	assert.Contains(t, resp.Code, "while (API.Read_LoopyLoop()) do\n  API.Sleep_tick(3)\nend\n")
	assert.Equal(t, len(resp.Code), resp.Bytes)
}

func TestHandleGenerate_InvalidGraph(t *testing.T) {
	s := NewServer(flowgen.New())

	_, err := s.handleGenerate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	assert.Error(t, err)

	_, err = s.handleGenerate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"graph": "nodes: [unterminated"})
	assert.Error(t, err)
}

func TestHandleGenerate_OutputBudget(t *testing.T) {
	b := dsl.New()
	b.Start("start").Go("a")
	b.Call("a", "A").Go("b").Go("c")
	b.Call("b", "B").Go("d")
	b.Call("c", "C").Go("d")
	b.Call("d", "D")
	doc, err := json.Marshal(compiler.Encode(b.Build()))
	require.NoError(t, err)

	s := NewServer(flowgen.New(flowgen.WithMaxOutputSize(32)))
	_, err = s.handleGenerate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"graph": string(doc)})
	assert.ErrorIs(t, err, domain.ErrOutputTooLarge)
}

func TestHandleValidate(t *testing.T) {
	s := NewServer(flowgen.New())

	resp, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"graph": loopGraph})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.NotNil(t, resp.Issues)

	resp, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"graph": `{"nodes": [], "edges": []}`})
	require.NoError(t, err)
	assert.False(t, resp.Valid)
	require.NotEmpty(t, resp.Issues)
	assert.Equal(t, validator.CodeNoStart, resp.Issues[0].Code)
}

func TestHandleListFunctions(t *testing.T) {
	s := NewServer(flowgen.New())

	all, err := s.handleListFunctions(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Len(t, all.Functions, 39)

	utility, err := s.handleListFunctions(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"category": "Utility"})
	require.NoError(t, err)
	require.NotEmpty(t, utility.Functions)
	for _, fn := range utility.Functions {
		assert.Equal(t, "Utility", fn.Category)
	}
}

func TestScriptTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(flowgen.New(), WithStore(memory.NewStore()))

	saved, err := s.handleSaveScript(ctx, mcp.CallToolRequest{}, map[string]interface{}{"name": "patrol", "graph": loopGraph})
	require.NoError(t, err)
	assert.Equal(t, "patrol", saved.Name)
	assert.NotEmpty(t, saved.ID)

	list, err := s.handleListScripts(ctx, mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"patrol"}, list.Scripts)

	code, err := s.handleGenerateSaved(ctx, mcp.CallToolRequest{}, map[string]interface{}{"name": "patrol"})
	require.NoError(t, err)
	assert.Contains(t, code.Code, "API.Sleep_tick(3)")

	_, err = s.handleGenerateSaved(ctx, mcp.CallToolRequest{}, map[string]interface{}{"name": "missing"})
	assert.ErrorIs(t, err, domain.ErrScriptNotFound)
}

func TestScriptTools_WithoutStore(t *testing.T) {
	s := NewServer(flowgen.New())

	_, err := s.handleListScripts(context.Background(), mcp.CallToolRequest{}, nil)
	assert.ErrorIs(t, err, ErrNoStore)
}
