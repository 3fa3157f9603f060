package compiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const editorJSON = `{
  "nodes": [
    {"id": "start", "type": "startNode", "position": {"x": 0, "y": 0}, "data": {}},
    {"id": "v", "type": "variableNode", "data": {"name": "count", "value": 5, "type": "number"}},
    {"id": "c", "type": "conditionNode", "data": {"condition": "count > 1", "trueLabel": "Yes", "falseLabel": "No"}},
    {"id": "f", "type": "functionNode", "data": {"functionName": "Foo", "parameters": [
      {"name": "x", "value": "1.5", "type": "number"},
      {"name": "y", "value": true},
      {"name": "z", "value": "{1}", "type": "table|number"}
    ]}},
    {"id": "l", "type": "loopNode", "data": {"condition": ""}},
    {"id": "n", "type": "commentNode", "data": {"text": "hello"}},
    {"id": "end", "type": "endNode", "data": {}}
  ],
  "edges": [
    {"id": "e1", "source": "start", "target": "c"},
    {"id": "e2", "source": "c", "target": "f", "sourceHandle": "true"},
    {"id": "e3", "source": "c", "target": "end", "sourceHandle": "false"},
    {"id": "e4", "source": "l", "target": "f", "sourceHandle": "loop-body"}
  ]
}`

func TestParser_ParseEditorJSON(t *testing.T) {
	g, err := NewParser().Parse([]byte(editorJSON))
	require.NoError(t, err)

	require.Len(t, g.Nodes, 7)
	assert.Equal(t, domain.Start{}, g.Nodes[0].Data)
	assert.Equal(t, domain.Variable{Name: "count", Value: "5", Type: domain.TypeNumber}, g.Nodes[1].Data)
	assert.Equal(t, domain.Condition{Expression: "count > 1", TrueLabel: "Yes", FalseLabel: "No"}, g.Nodes[2].Data)
	assert.Equal(t, domain.Function{Name: "Foo", Params: []domain.Param{
		{Name: "x", Value: "1.5", Hint: "number"},
		{Name: "y", Value: "true"},
		{Name: "z", Value: "{1}", Hint: "table|number"},
	}}, g.Nodes[3].Data)
	assert.Equal(t, domain.Loop{}, g.Nodes[4].Data)
	assert.Equal(t, domain.Comment{Text: "hello"}, g.Nodes[5].Data)
	assert.Equal(t, domain.End{}, g.Nodes[6].Data)

	require.Len(t, g.Edges, 4)
	assert.Equal(t, domain.HandleNone, g.Edges[0].Handle)
	assert.Equal(t, domain.HandleTrue, g.Edges[1].Handle)
	assert.Equal(t, domain.HandleFalse, g.Edges[2].Handle)
	assert.Equal(t, domain.HandleLoopBody, g.Edges[3].Handle)
}

func TestParser_ParseYAML(t *testing.T) {
	doc := `
nodes:
  - id: start
    type: start
  - id: hello
    type: function
    data:
      functionName: Say
      parameters:
        - name: text
          value: hi
        - name: times
          value: 3
  - id: flag
    type: variable
    data:
      name: ready
      value: false
edges:
  - source: start
    target: hello
`
	g, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)
	assert.Equal(t, domain.Function{Name: "Say", Params: []domain.Param{
		{Name: "text", Value: "hi"},
		{Name: "times", Value: "3"},
	}}, g.Nodes[1].Data)
	assert.Equal(t, domain.Variable{Name: "ready", Value: "false"}, g.Nodes[2].Data)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, "hello", g.Edges[0].Target)
}

func TestParser_YAMLKeepsLiteralText(t *testing.T) {
	doc := `
nodes:
  - id: f
    type: function
    data:
      functionName: Move
      parameters:
        - name: hex
          value: 0x10
        - name: float
          value: 1.0
        - name: flag
          value: True
        - name: missing
          value:
  - id: v
    type: variable
    data:
      name: rate
      value: 1e3
      type: number
`
	g, err := NewParser().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, domain.Function{Name: "Move", Params: []domain.Param{
		{Name: "hex", Value: "0x10"},
		{Name: "float", Value: "1.0"},
		{Name: "flag", Value: "True"},
		{Name: "missing"},
	}}, g.Nodes[0].Data)
	assert.Equal(t, domain.Variable{Name: "rate", Value: "1e3", Type: domain.TypeNumber}, g.Nodes[1].Data)
}

func TestParser_NodeIdentity(t *testing.T) {
	_, err := NewParser().Parse([]byte(`{"nodes":[{"type":"startNode"}],"edges":[]}`))
	assert.ErrorIs(t, err, domain.ErrMissingNodeID)

	_, err = NewParser().Parse([]byte(`{"nodes":[{"id":"a","type":"startNode"},{"id":"a","type":"endNode"}]}`))
	assert.ErrorIs(t, err, domain.ErrDuplicateNodeID)
}

func TestParser_UnknownsAreDroppedUnlessStrict(t *testing.T) {
	doc := []byte(`{
  "nodes": [
    {"id": "s", "type": "startNode"},
    {"id": "x", "type": "mysteryNode"}
  ],
  "edges": [
    {"source": "s", "target": "x", "sourceHandle": "sideways"},
    {"source": "s", "target": "x"}
  ]
}`)

	var buf bytes.Buffer
	g, err := NewParser(WithLogger(logging.NewWithWriter(&buf, slog.LevelWarn, false))).Parse(doc)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.Len(t, g.Edges, 1)
	assert.Contains(t, buf.String(), "mysteryNode")
	assert.Contains(t, buf.String(), "sideways")

	_, err = NewParser(WithStrict()).Parse(doc)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	_, err = NewParser(WithStrict()).Parse([]byte(`{"nodes":[],"edges":[{"source":"a","target":"b","sourceHandle":"up"}]}`))
	assert.ErrorIs(t, err, domain.ErrUnknownHandle)
}

func TestParser_Malformed(t *testing.T) {
	_, err := NewParser().Parse([]byte("nodes: [unclosed"))
	assert.Error(t, err)

	_, err = NewParser().Parse([]byte(`{"nodes": "nope"}`))
	assert.Error(t, err)
}

func TestEncode_RoundTrip(t *testing.T) {
	b := dsl.New()
	b.Start("start").Go("cond")
	b.Var("v", "speed", "10").Typed(domain.TypeNumber)
	b.If("cond", "speed > 5").Then("go").Else("stop")
	b.Call("go", "Move", "1", "north").Param("fast", "true", "boolean")
	b.Loop("loop", "").Body("go")
	b.Comment("note", "two\nlines")
	b.End("stop")
	want := b.Build()

	doc := Encode(want)
	assert.Equal(t, "functionNode", doc.Nodes[3].Type)
	assert.Equal(t, "true", doc.Edges[1].SourceHandle)
	assert.Empty(t, doc.Edges[0].SourceHandle)

	data, err := EncodeScript(&domain.Script{Name: "demo", Graph: *want})
	require.NoError(t, err)

	s, err := DecodeScript(data)
	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, want.Nodes, s.Graph.Nodes)
	assert.Equal(t, want.Edges, s.Graph.Edges)
}

func TestDecodeScript_Metadata(t *testing.T) {
	saved := domain.NewScript("meta", *dsl.Initial())
	data, err := EncodeScript(saved)
	require.NoError(t, err)

	s, err := DecodeScript(data)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, s.ID)
	assert.True(t, saved.SavedAt.Equal(s.SavedAt))
	assert.WithinDuration(t, time.Now(), s.SavedAt, time.Minute)

	_, err = DecodeScript([]byte(`{"name":"x","saved_at":"yesterday"}`))
	assert.Error(t, err)
	_, err = DecodeScript([]byte(`not json`))
	assert.Error(t, err)
}
