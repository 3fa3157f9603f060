package codegen

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowgen/pkg/domain"
)

// Prologue renders the variable and comment sections that precede the main
// script. Each section is emitted only when at least one matching node
// exists and is terminated by a blank line. Node order is preserved; edges
// play no part.
func Prologue(nodes []domain.Node) string {
	var sb strings.Builder
	writeVariables(&sb, nodes)
	writeComments(&sb, nodes)
	return sb.String()
}

func writeVariables(sb *strings.Builder, nodes []domain.Node) {
	var wrote bool
	for _, n := range nodes {
		v, ok := n.Data.(domain.Variable)
		if !ok {
			continue
		}
		if !wrote {
			writeLine(sb, 0, variablesTitle)
			wrote = true
		}
		writeLine(sb, 0, fmt.Sprintf(declareFormat, v.Name, Infer(v.Value, v.Type)))
	}
	if wrote {
		sb.WriteString("\n")
	}
}

func writeComments(sb *strings.Builder, nodes []domain.Node) {
	var wrote bool
	for _, n := range nodes {
		c, ok := n.Data.(domain.Comment)
		if !ok {
			continue
		}
		if !wrote {
			writeLine(sb, 0, commentsTitle)
			wrote = true
		}
		for _, line := range splitLines(c.Text) {
			writeLine(sb, 0, commentPrefix+line)
		}
	}
	if wrote {
		sb.WriteString("\n")
	}
}

// splitLines splits on line breaks, treating "\r\n" as a single break.
func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func writeLine(sb *strings.Builder, indent int, line string) {
	for range indent {
		sb.WriteString(indentUnit)
	}
	sb.WriteString(line)
	sb.WriteString("\n")
}
