package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/flowgen"
	"github.com/aretw0/flowgen/internal/presentation/tui"
	"github.com/fsnotify/fsnotify"
)

// settleDelay lets editors finish writing before the graph is re-read.
const settleDelay = 100 * time.Millisecond

// Watch regenerates the script every time the input graph changes, until
// ctx is cancelled. Generation errors are reported and watching continues.
func Watch(ctx context.Context, env *Env, opts GenerateOptions) error {
	opts.defaults()
	if opts.Input == "" || opts.Input == Stdin {
		return errors.New("--watch needs a graph file, not stdin")
	}
	target, err := filepath.Abs(opts.Input)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	status := opts.Stderr
	tui.PrintBanner(status, "flowgen "+strings.TrimSpace(flowgen.Version))
	env.Logger.Info("Starting Watcher", "path", target)
	printSystemMessage(status, "Watching '%s'.", opts.Input)

	regenerate := func() {
		if _, err := generateOnce(ctx, env, opts); err != nil {
			env.Logger.Error("Generation failed", "path", target, "error", err)
			printSystemMessage(status, "Generation failed: %v", err)
			return
		}
		printSystemMessage(status, "Script regenerated.")
	}
	regenerate()

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			env.Logger.Info("Stopping watcher")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isGraphChange(event, target) {
				continue
			}
			env.Logger.Debug("Change detected", "event", event.String())
			debounce = time.After(settleDelay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.Logger.Warn("Watcher error", "error", err)
		case <-debounce:
			debounce = nil
			printSystemMessage(status, "Change detected in '%s'.", filepath.Base(target))
			regenerate()
		}
	}
}

func isGraphChange(event fsnotify.Event, target string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
