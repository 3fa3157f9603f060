package dsl

import "github.com/aretw0/flowgen/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node and its exits.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Go adds a plain edge to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target, domain.HandleNone)
	return n
}

// Then adds the true branch of a condition.
func (n *NodeBuilder) Then(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target, domain.HandleTrue)
	return n
}

// Else adds the false branch of a condition.
func (n *NodeBuilder) Else(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target, domain.HandleFalse)
	return n
}

// Body adds a loop-body edge.
func (n *NodeBuilder) Body(target string) *NodeBuilder {
	n.builder.Connect(n.node.ID, target, domain.HandleLoopBody)
	return n
}

// Typed sets the declared type of a variable node. Other kinds are unchanged.
func (n *NodeBuilder) Typed(t domain.ValueType) *NodeBuilder {
	if v, ok := n.node.Data.(domain.Variable); ok {
		v.Type = t
		n.node.Data = v
	}
	return n
}

// Param appends a named parameter to a function node. hint is the editor's
// type annotation and may be empty.
func (n *NodeBuilder) Param(name, value, hint string) *NodeBuilder {
	if f, ok := n.node.Data.(domain.Function); ok {
		f.Params = append(append([]domain.Param(nil), f.Params...), domain.Param{Name: name, Value: value, Hint: hint})
		n.node.Data = f
	}
	return n
}

// Labels sets the branch labels of a condition node.
func (n *NodeBuilder) Labels(trueLabel, falseLabel string) *NodeBuilder {
	if c, ok := n.node.Data.(domain.Condition); ok {
		c.TrueLabel = trueLabel
		c.FalseLabel = falseLabel
		n.node.Data = c
	}
	return n
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
