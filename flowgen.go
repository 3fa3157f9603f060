package flowgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/flowgen/internal/codegen"
	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/pkg/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/aretw0/flowgen"

// Generate renders a graph as a Lua script. It is pure: the same graph
// always yields the same text, and the graph is not modified.
func Generate(g *domain.Graph) string {
	return codegen.Generate(g)
}

// Generator is the instrumented entry point for hosts (CLI, HTTP, MCP).
// It wraps the pure generator with tracing, logging and lifecycle hooks.
type Generator struct {
	parser         *compiler.Parser
	strict         bool
	hooks          domain.GenerationHooks
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	logger         *slog.Logger
	maxOutput      int
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithLogger sets a custom structured logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.GenerationHooks) Option {
	return func(g *Generator) {
		g.hooks = hooks
	}
}

// WithTracerProvider sets the provider used for spans (default: the
// global otel provider).
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(g *Generator) {
		g.tracerProvider = tp
	}
}

// WithParser injects a custom document parser.
func WithParser(p *compiler.Parser) Option {
	return func(g *Generator) {
		g.parser = p
	}
}

// WithStrict makes the default parser reject unknown node types and handles.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithMaxOutputSize bounds the size of generated scripts (default:
// codegen.DefaultMaxOutputSize). Zero or less disables the bound.
func WithMaxOutputSize(n int) Option {
	return func(g *Generator) {
		g.maxOutput = n
	}
}

// New initializes a new Generator.
func New(opts ...Option) *Generator {
	gen := &Generator{maxOutput: codegen.DefaultMaxOutputSize}
	for _, opt := range opts {
		opt(gen)
	}

	if gen.logger == nil {
		gen.logger = logging.NewNop()
	}
	if gen.parser == nil {
		popts := []compiler.Option{compiler.WithLogger(gen.logger)}
		if gen.strict {
			popts = append(popts, compiler.WithStrict())
		}
		gen.parser = compiler.NewParser(popts...)
	}
	if gen.tracerProvider == nil {
		gen.tracerProvider = otel.GetTracerProvider()
	}
	gen.tracer = gen.tracerProvider.Tracer(instrumentationName)
	return gen
}

// Parse decodes an editor document (JSON or YAML) into a graph.
func (gen *Generator) Parse(ctx context.Context, data []byte) (*domain.Graph, error) {
	_, span := gen.tracer.Start(ctx, "flowgen.parse")
	defer span.End()

	span.SetAttributes(attribute.Int("flowgen.document.bytes", len(data)))
	g, err := gen.parser.Parse(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return g, nil
}

// Generate renders a graph, recording a span and firing OnGenerate.
// Scripts that outgrow the output budget fail with domain.ErrOutputTooLarge
// and fire OnReject instead.
func (gen *Generator) Generate(ctx context.Context, g *domain.Graph) (string, error) {
	ctx, span := gen.tracer.Start(ctx, "flowgen.generate")
	defer span.End()

	if g == nil {
		g = &domain.Graph{}
	}
	started := time.Now()
	code, err := codegen.GenerateLimited(g, gen.maxOutput)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "output too large")
		gen.logger.Warn("Generated script exceeds output budget",
			"nodes", len(g.Nodes),
			"edges", len(g.Edges),
			"limit", gen.maxOutput,
		)
		if gen.hooks.OnReject != nil {
			gen.hooks.OnReject(ctx, &domain.RejectionEvent{Timestamp: started, Err: err})
		}
		return "", err
	}

	_, hasStart := g.FirstOfKind(domain.KindStart)
	_, hasLoop := g.FirstOfKind(domain.KindLoop)
	event := &domain.GenerationEvent{
		Timestamp: started,
		Nodes:     len(g.Nodes),
		Edges:     len(g.Edges),
		HasStart:  hasStart,
		HasLoop:   hasLoop,
		Bytes:     len(code),
		Duration:  time.Since(started),
	}

	span.SetAttributes(
		attribute.Int("flowgen.graph.nodes", event.Nodes),
		attribute.Int("flowgen.graph.edges", event.Edges),
		attribute.Bool("flowgen.graph.has_loop", event.HasLoop),
		attribute.Int("flowgen.script.bytes", event.Bytes),
	)
	if !hasStart {
		span.AddEvent("no start node")
		gen.logger.Warn("Graph has no start node", "nodes", event.Nodes)
	}
	gen.logger.Debug("Script generated",
		"nodes", event.Nodes,
		"edges", event.Edges,
		"bytes", event.Bytes,
		"duration", event.Duration,
	)

	if gen.hooks.OnGenerate != nil {
		gen.hooks.OnGenerate(ctx, event)
	}
	return code, nil
}

// GenerateDocument parses an editor document and renders it.
// A document that cannot be parsed fires OnReject.
func (gen *Generator) GenerateDocument(ctx context.Context, data []byte) (string, error) {
	ctx, span := gen.tracer.Start(ctx, "flowgen.generate_document")
	defer span.End()

	g, err := gen.Parse(ctx, data)
	if err != nil {
		span.SetStatus(codes.Error, "invalid document")
		gen.logger.Error("Failed to parse graph document", "error", err)
		if gen.hooks.OnReject != nil {
			gen.hooks.OnReject(ctx, &domain.RejectionEvent{Timestamp: time.Now(), Bytes: len(data), Err: err})
		}
		return "", fmt.Errorf("failed to parse graph: %w", err)
	}
	return gen.Generate(ctx, g)
}
