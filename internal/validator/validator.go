package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/flowgen/pkg/catalog"
	"github.com/aretw0/flowgen/pkg/domain"
)

// ErrInvalidGraph is returned by Report.Err when error-level issues exist.
var ErrInvalidGraph = errors.New("invalid graph")

// Severity ranks an issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Code identifies the kind of issue.
type Code string

const (
	CodeNoStart         Code = "no-start"
	CodeMultipleStarts  Code = "multiple-starts"
	CodeMultipleLoops   Code = "multiple-loops"
	CodeDanglingEdge    Code = "dangling-edge"
	CodeEdgeFromEnd     Code = "edge-from-end"
	CodeDuplicateBranch Code = "duplicate-branch"
	CodeIgnoredEdge     Code = "ignored-edge"
	CodeFanOut          Code = "fan-out"
	CodeCycle           Code = "cycle"
	CodeUnreachable     Code = "unreachable"
	CodeEmptyFunction   Code = "empty-function"
	CodeUnknownFunction Code = "unknown-function"
	CodeMissingParam    Code = "missing-param"
)

// Issue is a single finding about a graph.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	NodeID   string   `json:"node_id,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s [%s] %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", i.Severity, i.Code, i.NodeID, i.Message)
}

// Report collects the issues found in a graph.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) add(sev Severity, code Code, nodeID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Code: code, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether an issue with the given code was found.
func (r *Report) Has(code Code) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// Err returns nil unless the report holds error-level issues.
func (r *Report) Err() error {
	var msgs []string
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			msgs = append(msgs, i.String())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: found %d errors:\n- %s", ErrInvalidGraph, len(msgs), strings.Join(msgs, "\n- "))
}

// Validate lints a graph. None of the issues stop generation; they point
// at parts of the graph that will render differently than they look.
// The catalog is optional.
func Validate(g *domain.Graph, cat *catalog.Catalog) *Report {
	r := &Report{Issues: []Issue{}}
	if g == nil {
		g = &domain.Graph{}
	}
	nodes := g.Index()
	adj := domain.NewAdjacency(g.Edges)

	checkEntryPoints(r, g)
	checkEdges(r, g, nodes)
	checkExits(r, g, adj)
	checkFunctions(r, g, cat)
	checkCycles(r, g, nodes, adj)
	checkReachability(r, g, nodes, adj)
	return r
}

func checkEntryPoints(r *Report, g *domain.Graph) {
	starts := g.OfKind(domain.KindStart)
	loops := g.OfKind(domain.KindLoop)

	switch {
	case len(starts) == 0:
		r.add(SeverityError, CodeNoStart, "", "graph has no start node")
	case len(starts) > 1:
		for _, s := range starts[1:] {
			r.add(SeverityWarning, CodeMultipleStarts, s.ID, "only the first start node (%s) is used", starts[0].ID)
		}
	}
	for _, l := range loops[min(1, len(loops)):] {
		r.add(SeverityWarning, CodeMultipleLoops, l.ID, "only the first loop node (%s) drives the script", loops[0].ID)
	}
}

func checkEdges(r *Report, g *domain.Graph, nodes map[string]domain.Node) {
	for _, e := range g.Edges {
		if _, ok := nodes[e.Source]; !ok {
			r.add(SeverityWarning, CodeDanglingEdge, e.Source, "edge %s starts at a missing node", edgeName(e))
		}
		if _, ok := nodes[e.Target]; !ok {
			r.add(SeverityWarning, CodeDanglingEdge, e.Source, "edge %s points to missing node %q", edgeName(e), e.Target)
		}
	}
}

func checkExits(r *Report, g *domain.Graph, adj domain.Adjacency) {
	for _, n := range g.Nodes {
		out := adj[n.ID]
		switch n.Data.(type) {
		case domain.End:
			if len(out) > 0 {
				r.add(SeverityWarning, CodeEdgeFromEnd, n.ID, "%d outgoing edge(s) after an end node are never followed", len(out))
			}
		case domain.Function:
			if len(out) > 1 {
				r.add(SeverityWarning, CodeFanOut, n.ID, "%d outgoing edges are emitted one after another", len(out))
			}
		case domain.Condition:
			counts := map[domain.Handle]int{}
			for _, e := range out {
				counts[e.Handle]++
			}
			for _, h := range []domain.Handle{domain.HandleTrue, domain.HandleFalse} {
				if counts[h] > 1 {
					r.add(SeverityWarning, CodeDuplicateBranch, n.ID, "%d %s branches; only the first is used", counts[h], h)
				}
			}
			if ignored := len(out) - counts[domain.HandleTrue] - counts[domain.HandleFalse]; ignored > 0 {
				r.add(SeverityWarning, CodeIgnoredEdge, n.ID, "%d edge(s) without a true/false handle are ignored", ignored)
			}
		case domain.Variable, domain.Comment:
			if len(out) > 0 {
				r.add(SeverityWarning, CodeIgnoredEdge, n.ID, "outgoing edges of %s nodes are never followed", n.Kind())
			}
		}
	}
}

func checkFunctions(r *Report, g *domain.Graph, cat *catalog.Catalog) {
	for _, n := range g.Nodes {
		fn, ok := n.Data.(domain.Function)
		if !ok {
			continue
		}
		if strings.TrimSpace(fn.Name) == "" {
			r.add(SeverityError, CodeEmptyFunction, n.ID, "function node has no function name")
			continue
		}
		if cat == nil {
			continue
		}
		spec, ok := cat.Lookup(fn.Name)
		if !ok {
			r.add(SeverityWarning, CodeUnknownFunction, n.ID, "function %q is not in the catalog", fn.Name)
			continue
		}
		given := make(map[string]string, len(fn.Params))
		for _, p := range fn.Params {
			given[p.Name] = p.Value
		}
		for _, p := range spec.Params {
			if v, ok := given[p.Name]; p.Required && (!ok || strings.TrimSpace(v) == "") {
				r.add(SeverityWarning, CodeMissingParam, n.ID, "required parameter %q of %s has no value", p.Name, fn.Name)
			}
		}
	}
}

// checkCycles reports each edge that closes a cycle. The generator stops
// at the repeated node, so the loop body is written once.
func checkCycles(r *Report, g *domain.Graph, nodes map[string]domain.Node, adj domain.Adjacency) {
	const (
		unseen = iota
		active
		done
	)
	state := make(map[string]int, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		state[id] = active
		for _, e := range adj[id] {
			if _, ok := nodes[e.Target]; !ok {
				continue
			}
			switch state[e.Target] {
			case active:
				r.add(SeverityWarning, CodeCycle, id, "edge %s loops back to %s; the repeated part is emitted once", edgeName(e), e.Target)
			case unseen:
				visit(e.Target)
			}
		}
		state[id] = done
	}

	for _, n := range g.Nodes {
		if state[n.ID] == unseen {
			visit(n.ID)
		}
	}
}

// checkReachability crawls from the traversal root the way the generator
// does and reports code-bearing nodes it never reaches.
func checkReachability(r *Report, g *domain.Graph, nodes map[string]domain.Node, adj domain.Adjacency) {
	start, ok := g.FirstOfKind(domain.KindStart)
	if !ok {
		return
	}
	root := start
	if loop, ok := g.FirstOfKind(domain.KindLoop); ok {
		root = loop
	}

	visited := map[string]bool{root.ID: true}
	queue := []string{}
	for _, e := range adj[root.ID] {
		queue = append(queue, e.Target)
	}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true

		n, ok := nodes[currentID]
		if !ok {
			continue
		}
		for _, e := range followed(n, adj) {
			if !visited[e.Target] {
				queue = append(queue, e.Target)
			}
		}
	}

	for _, n := range g.Nodes {
		if visited[n.ID] {
			continue
		}
		switch n.Data.(type) {
		case domain.Function, domain.Condition, domain.End:
			r.add(SeverityWarning, CodeUnreachable, n.ID, "node is not reachable from %s and will not be emitted", root.ID)
		}
	}
}

// followed returns the edges the generator would walk from n.
func followed(n domain.Node, adj domain.Adjacency) []domain.Edge {
	switch n.Data.(type) {
	case domain.Function:
		return adj[n.ID]
	case domain.Condition:
		var out []domain.Edge
		for _, h := range []domain.Handle{domain.HandleTrue, domain.HandleFalse} {
			if e, ok := adj.First(n.ID, h); ok {
				out = append(out, e)
			}
		}
		return out
	}
	return nil
}

func edgeName(e domain.Edge) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Source + "->" + e.Target
}
