package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/aretw0/flowgen/pkg/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// ParamSpec describes one parameter of an API function.
// Type is free text ("number", "WPOINT", "table|number", ...).
type ParamSpec struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// ReturnSpec describes the value returned by an API function.
type ReturnSpec struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// FunctionSpec describes an API function available to scripts.
type FunctionSpec struct {
	Name        string      `json:"name" yaml:"name"`
	Category    string      `json:"category,omitempty" yaml:"category,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []ParamSpec `json:"params,omitempty" yaml:"params,omitempty"`
	Returns     *ReturnSpec `json:"returns,omitempty" yaml:"returns,omitempty"`
}

type document struct {
	Functions []FunctionSpec `json:"functions" yaml:"functions"`
}

// Catalog manages the known API functions.
type Catalog struct {
	mu        sync.RWMutex
	functions map[string]FunctionSpec
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		functions: make(map[string]FunctionSpec),
	}
}

// Default returns a catalog holding the built-in automation API.
func Default() *Catalog {
	c, err := Parse(defaultCatalog, ".yaml")
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file. Files ending in .json are read as JSON,
// anything else as YAML.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a catalog document in the format named by ext.
func Parse(data []byte, ext string) (*Catalog, error) {
	var doc document
	var err error
	if strings.EqualFold(ext, ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := New()
	for i, fn := range doc.Functions {
		if fn.Name == "" {
			return nil, fmt.Errorf("catalog entry #%d has no name", i)
		}
		c.Register(fn)
	}
	return c, nil
}

// Register adds a function to the catalog.
// If a function with the same name exists, it is overwritten.
func (c *Catalog) Register(fn FunctionSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.functions[fn.Name] = fn
}

// Lookup returns the function with the given name.
func (c *Catalog) Lookup(name string) (FunctionSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn, ok := c.functions[name]
	return fn, ok
}

// List returns all functions sorted by category, then name.
func (c *Catalog) List() []FunctionSpec {
	c.mu.RLock()
	out := make([]FunctionSpec, 0, len(c.functions))
	for _, fn := range c.functions {
		out = append(out, fn)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered functions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.functions)
}

// Template builds a function payload with one empty parameter per catalog
// entry. Parameter types carry over as editor hints.
func (c *Catalog) Template(name string) (domain.Function, error) {
	spec, ok := c.Lookup(name)
	if !ok {
		return domain.Function{}, fmt.Errorf("function not found: %s", name)
	}
	fn := domain.Function{Name: spec.Name, Params: make([]domain.Param, len(spec.Params))}
	for i, p := range spec.Params {
		fn.Params[i] = domain.Param{Name: p.Name, Hint: p.Type}
	}
	return fn, nil
}
