package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/pkg/dsl"
)

// DefaultGraphFile is the graph created by `flowgen init`.
const DefaultGraphFile = "flow.json"

// Init writes the editor's initial graph (start, loop, end) to path.
// An existing file is kept unless force is set.
func Init(path string, force bool) error {
	if path == "" {
		path = DefaultGraphFile
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	doc := compiler.Encode(dsl.Initial())
	doc.Name = "untitled"
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeOutput(path, string(data)+"\n", nil)
}
