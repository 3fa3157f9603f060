package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/flowgen/pkg/domain"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Handle
	}{
		{"", domain.HandleNone},
		{"out", domain.HandleNone},
		{"in", domain.HandleNone},
		{"true", domain.HandleTrue},
		{"false", domain.HandleFalse},
		{"loop-body", domain.HandleLoopBody},
		{"loopBody", domain.HandleLoopBody},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseHandle(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := domain.ParseHandle("maybe")
	assert.ErrorIs(t, err, domain.ErrUnknownHandle)
}

func TestParseValueType(t *testing.T) {
	got, err := domain.ParseValueType("Number")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeNumber, got)

	got, err = domain.ParseValueType("")
	require.NoError(t, err)
	assert.Equal(t, domain.TypeNone, got)

	_, err = domain.ParseValueType("table|number")
	assert.Error(t, err)
}

func TestGraph_FirstOfKind(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			{ID: "c", Data: domain.Comment{Text: "hi"}},
			{ID: "s1", Data: domain.Start{}},
			{ID: "s2", Data: domain.Start{}},
			{ID: "broken"},
		},
	}

	n, ok := g.FirstOfKind(domain.KindStart)
	require.True(t, ok)
	assert.Equal(t, "s1", n.ID)

	_, ok = g.FirstOfKind(domain.KindLoop)
	assert.False(t, ok)

	assert.Len(t, g.OfKind(domain.KindStart), 2)
	assert.Equal(t, domain.KindUnknown, g.Nodes[3].Kind())
	assert.Equal(t, "unknown", domain.KindUnknown.String())
}

func TestGraph_IndexKeepsFirst(t *testing.T) {
	g := &domain.Graph{
		Nodes: []domain.Node{
			{ID: "a", Data: domain.Function{Name: "First"}},
			{ID: "a", Data: domain.Function{Name: "Second"}},
		},
	}
	idx := g.Index()
	assert.Equal(t, "First", idx["a"].Data.(domain.Function).Name)

	n, ok := g.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "First", n.Data.(domain.Function).Name)
}

func TestAdjacency(t *testing.T) {
	adj := domain.NewAdjacency([]domain.Edge{
		{Source: "c", Target: "x", Handle: domain.HandleFalse},
		{Source: "c", Target: "y", Handle: domain.HandleTrue},
		{Source: "c", Target: "z", Handle: domain.HandleTrue},
	})
	assert.Len(t, adj["c"], 3)

	e, ok := adj.First("c", domain.HandleTrue)
	require.True(t, ok)
	assert.Equal(t, "y", e.Target)

	_, ok = adj.First("c", domain.HandleLoopBody)
	assert.False(t, ok)
}

func TestValidateScriptName(t *testing.T) {
	assert.NoError(t, domain.ValidateScriptName("farm-loop"))
	for _, bad := range []string{"", "  ", "a/b", `a\b`, "..", "../x"} {
		assert.ErrorIs(t, domain.ValidateScriptName(bad), domain.ErrInvalidScriptName, bad)
	}
}

func TestNewScript(t *testing.T) {
	s := domain.NewScript("demo", domain.Graph{})
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "demo", s.Name)
	assert.False(t, s.SavedAt.IsZero())
}

func TestScript_CloneIsDeep(t *testing.T) {
	s := &domain.Script{Name: "a", Graph: domain.Graph{
		Nodes: []domain.Node{
			{ID: "f", Data: domain.Function{Name: "F", Params: []domain.Param{{Name: "x", Value: "1"}}}},
			{ID: "g", Data: domain.Function{Name: "G"}},
		},
		Edges: []domain.Edge{{Source: "f", Target: "g"}},
	}}

	c := s.Clone()
	c.Graph.Nodes[0].Data.(domain.Function).Params[0].Value = "2"
	c.Graph.Edges[0].Target = "h"

	assert.Equal(t, "1", s.Graph.Nodes[0].Data.(domain.Function).Params[0].Value)
	assert.Equal(t, "g", s.Graph.Edges[0].Target)
	assert.Nil(t, c.Graph.Nodes[1].Data.(domain.Function).Params)
}
