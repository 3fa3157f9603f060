package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowgen"
	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/internal/presentation/graph"
	"github.com/aretw0/flowgen/internal/validator"
	"github.com/aretw0/flowgen/pkg/catalog"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource exposing the function catalog.
const CatalogURI = "flowgen://catalog"

// ErrNoStore is returned by script tools when no store is configured.
var ErrNoStore = errors.New("script storage is not configured")

// GenerateResponse aligns with the OpenAPI schema and provides a unified structure across adapters.
type GenerateResponse struct {
	Code  string `json:"code" jsonschema_description:"The generated Lua script"`
	Bytes int    `json:"bytes" jsonschema_description:"Size of the script in bytes"`
}

// ValidateResponse carries the lint report of a graph.
type ValidateResponse struct {
	Valid  bool              `json:"valid" jsonschema_description:"False when the report contains errors"`
	Issues []validator.Issue `json:"issues" jsonschema_description:"Problems found in the graph"`
}

// FunctionList is the result of list_functions.
type FunctionList struct {
	Functions []catalog.FunctionSpec `json:"functions" jsonschema_description:"API functions available to scripts"`
}

// ScriptList is the result of list_scripts.
type ScriptList struct {
	Scripts []string `json:"scripts" jsonschema_description:"Names of saved scripts"`
}

// SavedScript is the result of save_script.
type SavedScript struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	SavedAt string `json:"saved_at"`
}

// Server wraps a Generator and exposes it as an MCP Server.
type Server struct {
	generator *flowgen.Generator
	store     ports.ScriptStore
	catalog   *catalog.Catalog
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the MCP server.
type Option func(*Server)

// WithStore enables the script tools.
func WithStore(store ports.ScriptStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithCatalog sets the function catalog (default: the built-in one).
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		s.catalog = c
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(gen *flowgen.Generator, opts ...Option) *Server {
	s := &Server{
		generator: gen,
		mcpServer: server.NewMCPServer("flowgen-mcp", strings.TrimSpace(flowgen.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Baggage, Sentry-Trace")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: generate_script
	generateTool := mcp.NewTool("generate_script",
		mcp.WithDescription("Generate a Lua script from a flow graph document (editor JSON or YAML)."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("The graph document with nodes and edges")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: validate_graph
	validateTool := mcp.NewTool("validate_graph",
		mcp.WithDescription("Lint a flow graph: missing start node, dangling edges, unreachable nodes, unknown functions."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("The graph document with nodes and edges")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_functions
	listTool := mcp.NewTool("list_functions",
		mcp.WithDescription("List the API functions a function node may call."),
		mcp.WithString("category", mcp.Description("Only return functions of this category (optional)")),
		mcp.WithOutputSchema[FunctionList](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListFunctions))

	// TOOL: list_scripts
	scriptsTool := mcp.NewTool("list_scripts",
		mcp.WithDescription("List saved scripts."),
		mcp.WithOutputSchema[ScriptList](),
	)
	s.mcpServer.AddTool(scriptsTool, mcp.NewStructuredToolHandler(s.handleListScripts))

	// TOOL: save_script
	saveTool := mcp.NewTool("save_script",
		mcp.WithDescription("Save a flow graph under a name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Script name")),
		mcp.WithString("graph", mcp.Required(), mcp.Description("The graph document with nodes and edges")),
		mcp.WithOutputSchema[SavedScript](),
	)
	s.mcpServer.AddTool(saveTool, mcp.NewStructuredToolHandler(s.handleSaveScript))

	// TOOL: generate_saved_script
	savedTool := mcp.NewTool("generate_saved_script",
		mcp.WithDescription("Generate the Lua script of a saved graph."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Script name")),
		mcp.WithOutputSchema[GenerateResponse](),
	)
	s.mcpServer.AddTool(savedTool, mcp.NewStructuredToolHandler(s.handleGenerateSaved))

	// TOOL: render_mermaid
	s.mcpServer.AddTool(mcp.NewTool("render_mermaid",
		mcp.WithDescription("Render a flow graph as a Mermaid flowchart, highlighting lint findings."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("The graph document with nodes and edges")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		g, err := s.parse(ctx, request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		overlay := graph.OverlayFor(validator.Validate(g, s.catalog))
		return mcp.NewToolResultText(graph.GenerateMermaid(g, overlay)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	g, err := s.parse(ctx, args)
	if err != nil {
		return GenerateResponse{}, err
	}
	code, err := s.generator.Generate(ctx, g)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{Code: code, Bytes: len(code)}, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ValidateResponse, error) {
	g, err := s.parse(ctx, args)
	if err != nil {
		return ValidateResponse{}, err
	}
	report := validator.Validate(g, s.catalog)
	issues := report.Issues
	if issues == nil {
		issues = []validator.Issue{}
	}
	return ValidateResponse{Valid: report.Err() == nil, Issues: issues}, nil
}

func (s *Server) handleListFunctions(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FunctionList, error) {
	category, _ := args["category"].(string)

	fns := s.catalog.List()
	if category != "" {
		filtered := fns[:0]
		for _, fn := range fns {
			if strings.EqualFold(fn.Category, category) {
				filtered = append(filtered, fn)
			}
		}
		fns = filtered
	}
	return FunctionList{Functions: fns}, nil
}

func (s *Server) handleListScripts(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ScriptList, error) {
	if s.store == nil {
		return ScriptList{}, ErrNoStore
	}
	names, err := s.store.List(ctx)
	if err != nil {
		return ScriptList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return ScriptList{Scripts: names}, nil
}

func (s *Server) handleSaveScript(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SavedScript, error) {
	if s.store == nil {
		return SavedScript{}, ErrNoStore
	}
	name, _ := args["name"].(string)
	g, err := s.parse(ctx, args)
	if err != nil {
		return SavedScript{}, err
	}

	script := domain.NewScript(name, *g)
	if err := s.store.Save(ctx, script); err != nil {
		return SavedScript{}, fmt.Errorf("save failed: %w", err)
	}
	s.logger.Info("MCP: Script saved", "script", name, "id", script.ID)
	return SavedScript{
		ID:      script.ID,
		Name:    script.Name,
		SavedAt: script.SavedAt.Format(time.RFC3339),
	}, nil
}

func (s *Server) handleGenerateSaved(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (GenerateResponse, error) {
	if s.store == nil {
		return GenerateResponse{}, ErrNoStore
	}
	name, _ := args["name"].(string)
	script, err := s.store.Load(ctx, name)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("load failed: %w", err)
	}
	code, err := s.generator.Generate(ctx, &script.Graph)
	if err != nil {
		return GenerateResponse{}, err
	}
	return GenerateResponse{Code: code, Bytes: len(code)}, nil
}

func (s *Server) parse(ctx context.Context, args map[string]interface{}) (*domain.Graph, error) {
	doc, _ := args["graph"].(string)
	if strings.TrimSpace(doc) == "" {
		return nil, errors.New("graph is required")
	}
	g, err := s.generator.Parse(ctx, []byte(doc))
	if err != nil {
		s.logger.Warn("MCP: Graph rejected", "error", err, "size", len(doc))
		return nil, fmt.Errorf("invalid graph: %w", err)
	}
	return g, nil
}

func (s *Server) registerResources() {
	// EXPOSE: flowgen://catalog
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "API Function Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.catalog.List())
		if err != nil {
			return nil, fmt.Errorf("failed to encode catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
