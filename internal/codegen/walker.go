package codegen

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowgen/pkg/domain"
)

// walker renders the statement tree reachable from a node.
// It holds only read-only views of one graph snapshot.
type walker struct {
	nodes map[string]domain.Node
	adj   domain.Adjacency
	sb    *strings.Builder
	limit int
}

func newWalker(g *domain.Graph, sb *strings.Builder, limit int) *walker {
	return &walker{
		nodes: g.Index(),
		adj:   domain.NewAdjacency(g.Edges),
		sb:    sb,
		limit: limit,
	}
}

// overBudget reports whether the output has grown past the walker's limit.
// Every statement-producing node writes before recursing, so checking on
// entry bounds the total work by the limit.
func (w *walker) overBudget() bool {
	return w.limit > 0 && w.sb.Len() > w.limit
}

// path is the set of node ids on the current traversal path. A node is
// removed again once its subtree has been rendered, so sibling branches may
// revisit it while cycles terminate.
type path map[string]struct{}

func (w *walker) walk(id string, indent int, onPath path) {
	if w.overBudget() {
		return
	}
	node, ok := w.nodes[id]
	if !ok {
		return
	}
	if _, seen := onPath[id]; seen {
		return
	}
	onPath[id] = struct{}{}
	defer delete(onPath, id)

	switch data := node.Data.(type) {
	case domain.Function:
		writeLine(w.sb, indent, fmt.Sprintf(callFormat, data.Name, renderArgs(data.Params)))
		// Every outgoing edge is followed in order; there is no join semantics.
		for _, e := range w.adj[id] {
			w.walk(e.Target, indent, onPath)
		}
	case domain.Condition:
		writeLine(w.sb, indent, fmt.Sprintf(ifFormat, data.Expression))
		if e, ok := w.adj.First(id, domain.HandleTrue); ok {
			w.walk(e.Target, indent+1, onPath)
		}
		if e, ok := w.adj.First(id, domain.HandleFalse); ok {
			writeLine(w.sb, indent, elseLine)
			w.walk(e.Target, indent+1, onPath)
		}
		writeLine(w.sb, indent, endLine)
	case domain.End:
		writeLine(w.sb, indent, endOfScript)
	case domain.Loop, domain.Comment, domain.Start, domain.Variable:
		// Loops are only entered from the top level; the others are
		// rendered by the prologue or carry no statement.
	}
}

func renderArgs(params []domain.Param) string {
	args := make([]string, len(params))
	for i, p := range params {
		args[i] = Infer(p.Value, domain.TypeNone)
	}
	return strings.Join(args, ", ")
}
