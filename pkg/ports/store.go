package ports

import (
	"context"

	"github.com/aretw0/flowgen/pkg/domain"
)

// ScriptStore defines the interface for persisting saved scripts.
// Scripts are keyed by name; saving an existing name replaces it.
type ScriptStore interface {
	// Save persists the script under s.Name.
	// Returns domain.ErrInvalidScriptName if the name is not usable as a key.
	Save(ctx context.Context, s *domain.Script) error

	// Load retrieves a script by name.
	// Returns domain.ErrScriptNotFound if the script does not exist.
	Load(ctx context.Context, name string) (*domain.Script, error)

	// Delete removes a script. Deleting a missing script is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all saved scripts in ascending order.
	List(ctx context.Context) ([]string, error)
}
