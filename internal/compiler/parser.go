package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strconv"

	"github.com/aretw0/flowgen/internal/dto"
	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting editor documents into a Graph.
// Payloads are validated once here so the generator can rely on typed data.
type Parser struct {
	strict  bool
	maxSize int
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict rejects unknown node types and edge handles instead of
// dropping them.
func WithStrict() Option {
	return func(p *Parser) {
		p.strict = true
	}
}

// WithMaxSize caps the size of parsed documents in bytes.
func WithMaxSize(n int) Option {
	return func(p *Parser) {
		p.maxSize = n
	}
}

// WithLogger sets the logger used to report dropped nodes and edges.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NewNop()
	}
	return p
}

// Parse decodes a JSON or YAML document into a Graph.
func (p *Parser) Parse(data []byte) (*domain.Graph, error) {
	if err := CheckDocument(data, p.maxSize); err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return p.Compile(doc)
}

// DecodeDocument decodes raw bytes into the editor document. JSON is tried
// first; anything else is read as YAML. Both keep scalars as written.
func DecodeDocument(data []byte) (*dto.GraphDocument, error) {
	var raw any
	if json.Valid(data) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse graph json: %w", err)
		}
	} else {
		var root yaml.Node
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse graph yaml: %w", err)
		}
		raw = yamlValue(&root)
	}

	var doc dto.GraphDocument
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("invalid graph document: %w", err)
	}
	return &doc, nil
}

// Compile converts a decoded document into a validated Graph.
func (p *Parser) Compile(doc *dto.GraphDocument) (*domain.Graph, error) {
	g := &domain.Graph{
		Nodes: make([]domain.Node, 0, len(doc.Nodes)),
		Edges: make([]domain.Edge, 0, len(doc.Edges)),
	}

	seen := make(map[string]bool, len(doc.Nodes))
	for i, nd := range doc.Nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("node #%d: %w", i, domain.ErrMissingNodeID)
		}
		if seen[nd.ID] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateNodeID, nd.ID)
		}
		seen[nd.ID] = true

		payload, err := compilePayload(nd)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownKind) && !p.strict {
				p.logger.Warn("Dropping node of unknown type", "node_id", nd.ID, "type", nd.Type)
				continue
			}
			return nil, fmt.Errorf("node %s: %w", nd.ID, err)
		}
		g.Nodes = append(g.Nodes, domain.Node{ID: nd.ID, Data: payload})
	}

	for i, ed := range doc.Edges {
		handle, err := domain.ParseHandle(ed.SourceHandle)
		if err != nil {
			if !p.strict {
				p.logger.Warn("Dropping edge with unknown handle", "edge_id", ed.ID, "source", ed.Source, "handle", ed.SourceHandle)
				continue
			}
			return nil, fmt.Errorf("edge #%d (%s -> %s): %w", i, ed.Source, ed.Target, err)
		}
		g.Edges = append(g.Edges, domain.Edge{
			ID:     ed.ID,
			Source: ed.Source,
			Target: ed.Target,
			Handle: handle,
		})
	}

	return g, nil
}

func compilePayload(nd dto.NodeDocument) (domain.Payload, error) {
	switch nd.Type {
	case "startNode", "start":
		return domain.Start{}, nil
	case "endNode", "end", "outputNode":
		return domain.End{}, nil
	case "functionNode", "function":
		var d dto.FunctionData
		if err := decode(nd.Data, &d); err != nil {
			return nil, err
		}
		fn := domain.Function{Name: d.FunctionName, Params: make([]domain.Param, len(d.Parameters))}
		for i, pd := range d.Parameters {
			fn.Params[i] = domain.Param{Name: pd.Name, Value: pd.Value, Hint: pd.Type}
		}
		return fn, nil
	case "variableNode", "variable":
		var d dto.VariableData
		if err := decode(nd.Data, &d); err != nil {
			return nil, err
		}
		t, _ := domain.ParseValueType(d.Type)
		return domain.Variable{Name: d.Name, Value: d.Value, Type: t}, nil
	case "conditionNode", "condition":
		var d dto.ConditionData
		if err := decode(nd.Data, &d); err != nil {
			return nil, err
		}
		return domain.Condition{Expression: d.Condition, TrueLabel: d.TrueLabel, FalseLabel: d.FalseLabel}, nil
	case "loopNode", "loop":
		var d dto.LoopData
		if err := decode(nd.Data, &d); err != nil {
			return nil, err
		}
		return domain.Loop{Expression: d.Condition}, nil
	case "commentNode", "comment":
		var d dto.CommentData
		if err := decode(nd.Data, &d); err != nil {
			return nil, err
		}
		return domain.Comment{Text: d.Text}, nil
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, nd.Type)
}

// yamlValue converts a YAML tree into generic values. Scalars stay as their
// source text so "0x10" or "1.0" are not normalized by the YAML resolver.
func yamlValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = yamlValue(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, c := range n.Content {
			items[i] = yamlValue(c)
		}
		return items
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil
		}
		return n.Value
	}
	return nil
}

// decode maps a loosely typed bag onto a typed struct. Scalars destined for
// string fields keep their literal text, so a numeric 5 becomes "5" and a
// boolean true becomes "true".
func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       literalTextHook,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

func literalTextHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	switch v := data.(type) {
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case json.Number:
		return v.String(), nil
	}
	return data, nil
}
