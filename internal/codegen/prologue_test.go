package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/flowgen/pkg/domain"
)

func TestPrologue_Empty(t *testing.T) {
	nodes := []domain.Node{
		{ID: "start", Data: domain.Start{}},
		{ID: "a", Data: domain.Function{Name: "Foo"}},
	}
	assert.Empty(t, Prologue(nodes))
}

func TestPrologue_VariablesInListOrder(t *testing.T) {
	nodes := []domain.Node{
		{ID: "v2", Data: domain.Variable{Name: "b", Value: "True", Type: domain.TypeBoolean}},
		{ID: "start", Data: domain.Start{}},
		{ID: "v1", Data: domain.Variable{Name: "x", Value: "5", Type: domain.TypeNumber}},
		{ID: "v3", Data: domain.Variable{Name: "s", Value: "hi"}},
	}

	want := "-- Variables\n" +
		"local b = true\n" +
		"local x = 5\n" +
		"local s = \"hi\"\n" +
		"\n"
	assert.Equal(t, want, Prologue(nodes))
}

func TestPrologue_EmptyTypedValues(t *testing.T) {
	nodes := []domain.Node{
		{ID: "v1", Data: domain.Variable{Name: "x", Type: domain.TypeNumber}},
		{ID: "v2", Data: domain.Variable{Name: "ok", Type: domain.TypeBoolean}},
	}

	want := "-- Variables\n" +
		"local x = \"\"\n" +
		"local ok = \"\"\n" +
		"\n"
	assert.Equal(t, want, Prologue(nodes))
}

func TestPrologue_CommentsSplitLines(t *testing.T) {
	nodes := []domain.Node{
		{ID: "c1", Data: domain.Comment{Text: "Farm loop\nby me"}},
		{ID: "c2", Data: domain.Comment{Text: "windows\r\nline"}},
		{ID: "c3", Data: domain.Comment{Text: ""}},
	}

	want := "-- Comments\n" +
		"-- Farm loop\n" +
		"-- by me\n" +
		"-- windows\n" +
		"-- line\n" +
		"-- \n" +
		"\n"
	assert.Equal(t, want, Prologue(nodes))
}

func TestPrologue_VariablesBeforeComments(t *testing.T) {
	nodes := []domain.Node{
		{ID: "c", Data: domain.Comment{Text: "note"}},
		{ID: "v", Data: domain.Variable{Name: "n", Value: "1"}},
	}

	want := "-- Variables\nlocal n = 1\n\n-- Comments\n-- note\n\n"
	assert.Equal(t, want, Prologue(nodes))
}
