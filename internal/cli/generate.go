package cli

import (
	"context"
	"io"
	"os"

	"github.com/aretw0/flowgen/internal/presentation/tui"
	"golang.org/x/term"
)

const defaultWidth = 100

// GenerateOptions configures the generate command.
type GenerateOptions struct {
	Input  string // graph file, "-" for stdin
	Output string // script file, empty for stdout
	Pretty bool   // syntax-highlight on a terminal
	Watch  bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer // banner and watch status
}

func (o *GenerateOptions) defaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// Generate renders one graph document to Lua.
func Generate(ctx context.Context, env *Env, opts GenerateOptions) error {
	opts.defaults()
	if opts.Watch {
		return Watch(ctx, env, opts)
	}
	_, err := generateOnce(ctx, env, opts)
	return err
}

func generateOnce(ctx context.Context, env *Env, opts GenerateOptions) (string, error) {
	data, err := readInput(opts.Input, opts.Stdin)
	if err != nil {
		return "", err
	}
	code, err := env.Generator.GenerateDocument(ctx, data)
	if err != nil {
		return "", err
	}

	if opts.Pretty && opts.Output == "" {
		rendered, err := tui.RenderLua(code, terminalWidth(opts.Stdout))
		if err != nil {
			env.Logger.Warn("Highlighting failed, printing plain script", "error", err)
		} else {
			code = rendered
		}
	}
	if err := writeOutput(opts.Output, code, opts.Stdout); err != nil {
		return "", err
	}
	return code, nil
}

// terminalWidth returns the width of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}
