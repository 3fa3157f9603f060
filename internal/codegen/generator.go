package codegen

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowgen/pkg/domain"
)

// DefaultMaxOutputSize bounds generated scripts in GenerateLimited callers
// that do not configure their own budget.
const DefaultMaxOutputSize = 8 << 20

// Generate converts a flow graph into a Lua script.
//
// The script is a fixed header, the variable and comment prologue, then the
// main body. The body is driven by the first Loop node in input order when
// one exists, otherwise by the edges leaving the first Start node. A graph
// without a Start node yields a diagnostic comment instead of a body.
//
// Generate never fails and does not retain or mutate g; concurrent calls on
// independent snapshots are safe. Fan-out diamonds grow the output
// exponentially; use GenerateLimited for untrusted graphs.
func Generate(g *domain.Graph) string {
	code, _ := generate(g, 0)
	return code
}

// GenerateLimited is Generate with an output budget. Traversal stops as soon
// as the script grows past limit bytes and domain.ErrOutputTooLarge is
// returned. A limit of zero or less means no budget.
func GenerateLimited(g *domain.Graph, limit int) (string, error) {
	code, ok := generate(g, limit)
	if !ok {
		return "", fmt.Errorf("%w: exceeds %d bytes", domain.ErrOutputTooLarge, limit)
	}
	return code, nil
}

func generate(g *domain.Graph, limit int) (string, bool) {
	if g == nil {
		g = &domain.Graph{}
	}

	var sb strings.Builder
	writeLine(&sb, 0, headerLine)
	sb.WriteString("\n")
	sb.WriteString(Prologue(g.Nodes))

	start, ok := g.FirstOfKind(domain.KindStart)
	if !ok {
		writeLine(&sb, 0, noStartLine)
		if limit > 0 && sb.Len() > limit {
			return "", false
		}
		return sb.String(), true
	}

	writeLine(&sb, 0, mainTitle)
	w := newWalker(g, &sb, limit)

	if loopNode, ok := g.FirstOfKind(domain.KindLoop); ok {
		loop := loopNode.Data.(domain.Loop)
		expr := loop.Expression
		if strings.TrimSpace(expr) == "" {
			expr = domain.DefaultLoopExpression
		}
		writeLine(&sb, 0, fmt.Sprintf(whileFormat, expr))
		for _, e := range w.adj[loopNode.ID] {
			w.walk(e.Target, 1, path{})
		}
		writeLine(&sb, 0, endLine)
	} else {
		for _, e := range w.adj[start.ID] {
			w.walk(e.Target, 0, path{})
		}
	}

	if w.overBudget() {
		return "", false
	}
	return sb.String(), true
}
