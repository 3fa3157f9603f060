package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/flowgen/pkg/domain"
)

// Store implements ports.ScriptStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Script
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Script),
	}
}

// Save keeps a copy of the script, so later edits by the caller do not leak in.
func (s *Store) Save(ctx context.Context, script *domain.Script) error {
	if err := domain.ValidateScriptName(script.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[script.Name] = script.Clone()
	return nil
}

// Load retrieves a copy of the script.
func (s *Store) Load(ctx context.Context, name string) (*domain.Script, error) {
	if err := domain.ValidateScriptName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	script, ok := s.data[name]
	if !ok {
		return nil, domain.ErrScriptNotFound
	}
	return script.Clone(), nil
}

// Delete removes the script.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns saved script names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names, nil
}
