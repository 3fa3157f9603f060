package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Script is a named, saved flow graph.
type Script struct {
	ID      string
	Name    string
	Graph   Graph
	SavedAt time.Time
}

// NewScript wraps a graph under a name, assigning a fresh id and timestamp.
func NewScript(name string, g Graph) *Script {
	return &Script{
		ID:      uuid.NewString(),
		Name:    name,
		Graph:   g,
		SavedAt: time.Now().UTC(),
	}
}

// ValidateScriptName checks that a script name is usable as a storage key
// on every backend (including the filesystem).
func ValidateScriptName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidScriptName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidScriptName, name)
	}
	if len(name) > 128 {
		return fmt.Errorf("%w: longer than 128 bytes", ErrInvalidScriptName)
	}
	return nil
}

// Clone returns a deep copy of the script.
func (s *Script) Clone() *Script {
	c := *s
	c.Graph = s.Graph.Clone()
	return &c
}
