package dsl

import (
	"fmt"

	"github.com/aretw0/flowgen/pkg/domain"
)

// Builder manages the graph construction.
// Nodes and edges keep the order in which they were added, which decides
// the first Start and first Loop of the resulting graph.
type Builder struct {
	nodes []*NodeBuilder
	index map[string]*NodeBuilder
	edges []domain.Edge
}

// New creates a new graph builder.
func New() *Builder {
	return &Builder{
		index: make(map[string]*NodeBuilder),
	}
}

// Add creates a node with the given payload.
// If the node already exists, its payload is replaced and the existing
// builder is returned.
func (b *Builder) Add(id string, data domain.Payload) *NodeBuilder {
	if nb, ok := b.index[id]; ok {
		nb.node.Data = data
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{ID: id, Data: data},
		builder: b,
	}
	b.nodes = append(b.nodes, nb)
	b.index[id] = nb
	return nb
}

// Start adds the entry node.
func (b *Builder) Start(id string) *NodeBuilder {
	return b.Add(id, domain.Start{})
}

// End adds a terminal node.
func (b *Builder) End(id string) *NodeBuilder {
	return b.Add(id, domain.End{})
}

// Call adds a function node. Positional args are named param1..paramN.
func (b *Builder) Call(id, function string, args ...string) *NodeBuilder {
	params := make([]domain.Param, len(args))
	for i, a := range args {
		params[i] = domain.Param{Name: fmt.Sprintf("param%d", i+1), Value: a}
	}
	return b.Add(id, domain.Function{Name: function, Params: params})
}

// Var adds a variable declaration with an inferred type.
func (b *Builder) Var(id, name, value string) *NodeBuilder {
	return b.Add(id, domain.Variable{Name: name, Value: value})
}

// If adds a condition node.
func (b *Builder) If(id, expression string) *NodeBuilder {
	return b.Add(id, domain.Condition{Expression: expression, TrueLabel: "True", FalseLabel: "False"})
}

// Loop adds a loop node.
func (b *Builder) Loop(id, expression string) *NodeBuilder {
	return b.Add(id, domain.Loop{Expression: expression})
}

// Comment adds a comment node.
func (b *Builder) Comment(id, text string) *NodeBuilder {
	return b.Add(id, domain.Comment{Text: text})
}

// Connect adds an edge between two node ids, which need not exist yet.
func (b *Builder) Connect(source, target string, handle domain.Handle) *Builder {
	b.edges = append(b.edges, domain.Edge{
		ID:     fmt.Sprintf("e%d", len(b.edges)+1),
		Source: source,
		Target: target,
		Handle: handle,
	})
	return b
}

// Build returns the graph snapshot. Later changes to the builder do not
// affect a graph already built.
func (b *Builder) Build() *domain.Graph {
	g := &domain.Graph{
		Nodes: make([]domain.Node, 0, len(b.nodes)),
		Edges: make([]domain.Edge, len(b.edges)),
	}
	for _, nb := range b.nodes {
		g.Nodes = append(g.Nodes, nb.Build())
	}
	copy(g.Edges, b.edges)
	return g
}

// Initial returns the graph a new editor canvas starts with.
func Initial() *domain.Graph {
	b := New()
	b.Start("start")
	b.Loop("loop", domain.DefaultLoopExpression)
	b.End("end")
	return b.Build()
}
