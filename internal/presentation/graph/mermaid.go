package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowgen/internal/validator"
	"github.com/aretw0/flowgen/pkg/domain"
)

// GraphOverlay contains lint data to visualize on the graph.
type GraphOverlay struct {
	// Unreachable nodes are drawn greyed out.
	Unreachable []string
	// Flagged nodes carry at least one warning.
	Flagged []string
}

// OverlayFor turns a lint report into highlighting. Issues without a node
// are skipped.
func OverlayFor(report *validator.Report) *GraphOverlay {
	overlay := &GraphOverlay{}
	for _, issue := range report.Issues {
		if issue.NodeID == "" {
			continue
		}
		if issue.Code == validator.CodeUnreachable {
			overlay.Unreachable = append(overlay.Unreachable, issue.NodeID)
		} else {
			overlay.Flagged = append(overlay.Flagged, issue.NodeID)
		}
	}
	return overlay
}

// GenerateMermaid produces a Mermaid flowchart for a graph.
// It applies semantic styling:
// - Start/End: ((Circle)) / (((Double circle)))
// - Function: [[Subroutine]]
// - Condition: {Rhombus}
// - Loop: {{Hexagon}}
// - Variable: [/Parallelogram/]
// - Comment: >Flag]
// Condition edges are labelled with the node's branch labels.
func GenerateMermaid(g *domain.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if g == nil {
		return sb.String()
	}

	nodes := g.Index()
	for _, node := range g.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		opener, closer := "[", "]"

		switch node.Data.(type) {
		case domain.Start:
			opener, closer = "((", "))"
		case domain.End:
			opener, closer = "(((", ")))"
		case domain.Function:
			opener, closer = "[[", "]]"
		case domain.Condition:
			opener, closer = "{", "}"
		case domain.Loop:
			opener, closer = "{{", "}}"
		case domain.Variable:
			opener, closer = "[/", "/]"
		case domain.Comment:
			opener, closer = ">", "]"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(nodeLabel(node)), closer))
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if label := edgeLabel(e, nodes); label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(label))
		}
		if _, ok := nodes[e.Target]; !ok {
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", sanitizeMermaidID(e.Source), arrow, sanitizeMermaidID(e.Target)))
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef unreachable fill:#eeeeee,stroke:#9e9e9e,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef flagged fill:#fff3e0,stroke:#e65100,stroke-width:2px,color:#000;\n")
		writeClass(&sb, overlay.Unreachable, "unreachable")
		writeClass(&sb, overlay.Flagged, "flagged")
	}

	return sb.String()
}

func writeClass(sb *strings.Builder, ids []string, class string) {
	seen := make(map[string]bool)
	for _, id := range ids {
		safeID := sanitizeMermaidID(id)
		if !seen[safeID] && safeID != "" {
			seen[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s %s;\n", safeID, class))
		}
	}
}

func nodeLabel(n domain.Node) string {
	switch p := n.Data.(type) {
	case domain.Start:
		return "Start"
	case domain.End:
		return "End"
	case domain.Function:
		return p.Name + "()"
	case domain.Condition:
		return p.Expression
	case domain.Loop:
		if strings.TrimSpace(p.Expression) == "" {
			return "while " + domain.DefaultLoopExpression
		}
		return "while " + p.Expression
	case domain.Variable:
		return p.Name + " = " + p.Value
	case domain.Comment:
		return strings.ReplaceAll(p.Text, "\n", " ")
	}
	return n.ID
}

func edgeLabel(e domain.Edge, nodes map[string]domain.Node) string {
	cond, isCond := nodes[e.Source].Data.(domain.Condition)
	switch e.Handle {
	case domain.HandleTrue:
		if isCond && cond.TrueLabel != "" {
			return cond.TrueLabel
		}
		return "true"
	case domain.HandleFalse:
		if isCond && cond.FalseLabel != "" {
			return cond.FalseLabel
		}
		return "false"
	case domain.HandleLoopBody:
		return "body"
	}
	return ""
}

// Double quotes end a Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	// "end" is a Mermaid keyword and breaks the flowchart as a node id.
	if strings.EqualFold(s, "end") {
		s += "_"
	}
	return s
}
