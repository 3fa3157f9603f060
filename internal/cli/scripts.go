package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/ports"
)

// SaveScript parses a graph document and stores it under name.
func SaveScript(ctx context.Context, env *Env, store ports.ScriptStore, name, input string, stdin io.Reader, w io.Writer) error {
	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	g, err := env.Generator.Parse(ctx, data)
	if err != nil {
		return err
	}

	script := domain.NewScript(name, *g)
	if err := store.Save(ctx, script); err != nil {
		return fmt.Errorf("failed to save script: %w", err)
	}
	env.Logger.Info("Script saved", "script", name, "id", script.ID)
	printSystemMessage(w, "Saved '%s' (%d nodes).", name, len(g.Nodes))
	return nil
}

// LoadScript prints a saved graph as an editor document.
func LoadScript(ctx context.Context, store ports.ScriptStore, name string, w io.Writer) error {
	script, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	doc := compiler.Encode(&script.Graph)
	doc.Name = script.Name

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ListScripts prints saved script names, one per line.
func ListScripts(ctx context.Context, store ports.ScriptStore, w io.Writer) error {
	names, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		printSystemMessage(w, "No saved scripts.")
		return nil
	}
	_, err = io.WriteString(w, strings.Join(names, "\n")+"\n")
	return err
}

// DeleteScript removes a saved script.
func DeleteScript(ctx context.Context, env *Env, store ports.ScriptStore, name string, w io.Writer) error {
	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	env.Logger.Info("Script deleted", "script", name)
	printSystemMessage(w, "Deleted '%s'.", name)
	return nil
}

// ExportScript generates the Lua script of a saved graph. An empty output
// writes to w; a directory-less name such as "patrol" becomes "patrol.lua".
func ExportScript(ctx context.Context, env *Env, store ports.ScriptStore, name, output string, w io.Writer) error {
	script, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	code, err := env.Generator.Generate(ctx, &script.Graph)
	if err != nil {
		return err
	}

	if output != "" && output != Stdin && !strings.HasSuffix(output, domain.ScriptExtension) {
		output += domain.ScriptExtension
	}
	return writeOutput(output, code, w)
}
