package domain

// Graph is a read-only snapshot of one flow diagram.
// Node order is significant: the first Start and the first Loop in input
// order are the authoritative ones.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// Lookup returns the first node with the given id.
func (g *Graph) Lookup(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// FirstOfKind returns the first node of the given kind in input order.
func (g *Graph) FirstOfKind(kind Kind) (Node, bool) {
	for _, n := range g.Nodes {
		if n.Kind() == kind {
			return n, true
		}
	}
	return Node{}, false
}

// OfKind returns every node of the given kind, preserving input order.
func (g *Graph) OfKind(kind Kind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind() == kind {
			out = append(out, n)
		}
	}
	return out
}

// Index maps node ids to nodes. Duplicate ids keep their first occurrence.
func (g *Graph) Index() map[string]Node {
	idx := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = n
		}
	}
	return idx
}

// Adjacency maps a node id to its outgoing edges in edge-list order.
type Adjacency map[string][]Edge

// NewAdjacency builds the outgoing-edge index for a list of edges.
func NewAdjacency(edges []Edge) Adjacency {
	adj := make(Adjacency)
	for _, e := range edges {
		adj[e.Source] = append(adj[e.Source], e)
	}
	return adj
}

// First returns the first outgoing edge of id carrying the given handle.
func (a Adjacency) First(id string, h Handle) (Edge, bool) {
	for _, e := range a[id] {
		if e.Handle == h {
			return e, true
		}
	}
	return Edge{}, false
}

// Clone returns a deep copy of the graph. Payloads are values, except the
// parameter slice of function nodes, which is copied too.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	copy(out.Edges, g.Edges)
	for i, n := range g.Nodes {
		if fn, ok := n.Data.(Function); ok && fn.Params != nil {
			fn.Params = append(make([]Param, 0, len(fn.Params)), fn.Params...)
			n.Data = fn
		}
		out.Nodes[i] = n
	}
	return out
}
