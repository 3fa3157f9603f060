package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/flowgen/internal/presentation/graph"
	"github.com/aretw0/flowgen/internal/validator"
	"github.com/aretw0/flowgen/pkg/catalog"
)

// Validate lints a graph document and prints its issues. It fails only when
// the report contains errors.
func Validate(ctx context.Context, env *Env, input string, stdin io.Reader, w io.Writer) error {
	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	g, err := env.Generator.Parse(ctx, data)
	if err != nil {
		return err
	}

	report := validator.Validate(g, env.Catalog)
	for _, issue := range report.Issues {
		fmt.Fprintln(w, issue.String())
	}
	if err := report.Err(); err != nil {
		return err
	}
	fmt.Fprintln(w, "Graph is valid! ✅")
	return nil
}

// Graph prints the Mermaid flowchart of a graph document.
func Graph(ctx context.Context, env *Env, input string, overlay bool, stdin io.Reader, w io.Writer) error {
	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	g, err := env.Generator.Parse(ctx, data)
	if err != nil {
		return err
	}

	var ov *graph.GraphOverlay
	if overlay {
		ov = graph.OverlayFor(validator.Validate(g, env.Catalog))
	}
	_, err = io.WriteString(w, graph.GenerateMermaid(g, ov))
	return err
}

// Catalog lists the API functions, or describes one when name is set.
func Catalog(env *Env, name string, w io.Writer) error {
	if name != "" {
		fn, ok := env.Catalog.Lookup(name)
		if !ok {
			return fmt.Errorf("function not found: %s", name)
		}
		describeFunction(w, fn)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tFUNCTION\tPARAMS")
	for _, fn := range env.Catalog.List() {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", fn.Category, fn.Name, len(fn.Params))
	}
	return tw.Flush()
}

func describeFunction(w io.Writer, fn catalog.FunctionSpec) {
	names := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		names[i] = p.Name
	}
	fmt.Fprintf(w, "API.%s(%s)\n", fn.Name, strings.Join(names, ", "))
	if fn.Category != "" {
		fmt.Fprintf(w, "  category: %s\n", fn.Category)
	}
	if fn.Description != "" {
		fmt.Fprintf(w, "  %s\n", fn.Description)
	}
	for _, p := range fn.Params {
		req := ""
		if p.Required {
			req = " (required)"
		}
		fmt.Fprintf(w, "  - %s: %s%s", p.Name, p.Type, req)
		if p.Description != "" {
			fmt.Fprintf(w, " %s", p.Description)
		}
		fmt.Fprintln(w)
	}
	if fn.Returns != nil {
		fmt.Fprintf(w, "  returns: %s\n", fn.Returns.Type)
	}
}
