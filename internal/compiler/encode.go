package compiler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/aretw0/flowgen/internal/dto"
	"github.com/aretw0/flowgen/pkg/domain"
)

// Encode converts a Graph back into the editor document format.
// Parsing the result yields an equal Graph.
func Encode(g *domain.Graph) *dto.GraphDocument {
	doc := &dto.GraphDocument{
		Nodes: make([]dto.NodeDocument, 0, len(g.Nodes)),
		Edges: make([]dto.EdgeDocument, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		nd, ok := encodeNode(n)
		if !ok {
			continue
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, e := range g.Edges {
		ed := dto.EdgeDocument{ID: e.ID, Source: e.Source, Target: e.Target}
		if e.Handle != domain.HandleNone {
			ed.SourceHandle = e.Handle.String()
		}
		doc.Edges = append(doc.Edges, ed)
	}
	return doc
}

func encodeNode(n domain.Node) (dto.NodeDocument, bool) {
	nd := dto.NodeDocument{ID: n.ID, Data: map[string]any{}}
	switch p := n.Data.(type) {
	case domain.Start:
		nd.Type = "startNode"
	case domain.End:
		nd.Type = "endNode"
	case domain.Function:
		nd.Type = "functionNode"
		params := make([]any, len(p.Params))
		for i, prm := range p.Params {
			entry := map[string]any{"name": prm.Name, "value": prm.Value}
			if prm.Hint != "" {
				entry["type"] = prm.Hint
			}
			params[i] = entry
		}
		nd.Data["functionName"] = p.Name
		nd.Data["parameters"] = params
	case domain.Variable:
		nd.Type = "variableNode"
		nd.Data["name"] = p.Name
		nd.Data["value"] = p.Value
		if p.Type != domain.TypeNone {
			nd.Data["type"] = p.Type.String()
		}
	case domain.Condition:
		nd.Type = "conditionNode"
		nd.Data["condition"] = p.Expression
		if p.TrueLabel != "" {
			nd.Data["trueLabel"] = p.TrueLabel
		}
		if p.FalseLabel != "" {
			nd.Data["falseLabel"] = p.FalseLabel
		}
	case domain.Loop:
		nd.Type = "loopNode"
		nd.Data["condition"] = p.Expression
	case domain.Comment:
		nd.Type = "commentNode"
		nd.Data["text"] = p.Text
	default:
		return nd, false
	}
	return nd, true
}

// EncodeScript serializes a saved script as JSON.
func EncodeScript(s *domain.Script) ([]byte, error) {
	rec := dto.ScriptRecord{
		ID:      s.ID,
		Name:    s.Name,
		SavedAt: s.SavedAt.UTC().Format(time.RFC3339Nano),
		Graph:   *Encode(&s.Graph),
	}
	return json.MarshalIndent(rec, "", "  ")
}

// DecodeScript restores a script serialized by EncodeScript.
// The embedded graph is compiled strictly.
func DecodeScript(data []byte) (*domain.Script, error) {
	var rec struct {
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		SavedAt string          `json:"saved_at"`
		Graph   json.RawMessage `json:"graph"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}

	s := &domain.Script{ID: rec.ID, Name: rec.Name}
	if rec.SavedAt != "" {
		ts, err := time.Parse(time.RFC3339Nano, rec.SavedAt)
		if err != nil {
			return nil, fmt.Errorf("script %s: invalid saved_at: %w", rec.Name, err)
		}
		s.SavedAt = ts
	}
	if len(rec.Graph) > 0 {
		g, err := NewParser(WithStrict()).Parse(rec.Graph)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", rec.Name, err)
		}
		s.Graph = *g
	}
	return s, nil
}
