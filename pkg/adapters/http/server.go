package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/flowgen"
	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/internal/dto"
	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/internal/presentation/graph"
	"github.com/aretw0/flowgen/internal/validator"
	"github.com/aretw0/flowgen/pkg/catalog"
	"github.com/aretw0/flowgen/pkg/domain"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/aretw0/flowgen/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxDocumentBytes caps request bodies.
const MaxDocumentBytes = compiler.DefaultMaxDocumentSize

// Server implements ServerInterface on top of a Generator.
type Server struct {
	Generator *flowgen.Generator
	Store     ports.ScriptStore
	Catalog   *catalog.Catalog
	Streams   *StreamManager

	sessions *session.Manager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the HTTP server.
type Option func(*Server)

// WithStore enables the /scripts routes.
func WithStore(store ports.ScriptStore) Option {
	return func(s *Server) {
		s.Store = store
	}
}

// WithCatalog sets the function catalog (default: the built-in one).
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Server) {
		s.Catalog = c
	}
}

// WithGatherer exposes GET /metrics for the given registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the generator.
func NewHandler(gen *flowgen.Generator, opts ...Option) http.Handler {
	return newServer(gen, opts...).handler()
}

func newServer(gen *flowgen.Generator, opts ...Option) *Server {
	server := &Server{Generator: gen}
	for _, opt := range opts {
		opt(server)
	}
	if server.logger == nil {
		server.logger = logging.NewNop()
	}
	if server.Catalog == nil {
		server.Catalog = catalog.Default()
	}
	server.Streams = NewStreamManager(server.logger)
	if server.Store != nil {
		sessions, ok := server.Store.(*session.Manager)
		if !ok {
			sessions = session.NewManager(server.Store, session.WithLogger(server.logger))
		}
		server.sessions = sessions
		server.Store = sessions
	}
	return server
}

func (server *Server) handler() http.Handler {
	r := chi.NewRouter()

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		spec, err := rawSpec()
		if err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			server.logger.Error("Failed to load OpenAPI spec", "error", err)
			return
		}
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if server.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.gatherer, promhttp.HandlerOpts{}))
	}

	handler := HandlerFromMux(server, r)
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>flowgen API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GenerateResponse is the JSON body of POST /generate.
type GenerateResponse struct {
	Code  string `json:"code"`
	Bytes int    `json:"bytes"`
}

// ValidateResponse is the JSON body of POST /validate.
type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Issues []validator.Issue `json:"issues"`
}

// ScriptSummary describes a saved script without its graph.
type ScriptSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}

// ScriptDocument is a saved script with its graph in editor format.
type ScriptDocument struct {
	ScriptSummary
	Graph *dto.GraphDocument `json:"graph"`
}

// ScriptEvent is broadcast on /events when a script changes.
type ScriptEvent struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":         "flowgen-http",
		"version":     strings.TrimSpace(flowgen.Version),
		"api_version": apiVersion,
		"functions":   s.Catalog.Len(),
	})
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request, params GenerateParams) {
	format := FormatJSON
	if params.Format != nil {
		format = *params.Format
	}
	if format != FormatJSON && format != FormatText {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
		return
	}

	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	code, ok := s.generate(w, r, g)
	if !ok {
		return
	}

	if format == FormatText {
		w.Header().Set("Content-Type", "text/x-lua; charset=utf-8")
		io.WriteString(w, code)
		return
	}
	s.writeJSON(w, http.StatusOK, GenerateResponse{Code: code, Bytes: len(code)})
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	report := validator.Validate(g, s.Catalog)
	s.writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:  report.Err() == nil,
		Issues: report.Issues,
	})
}

// Mermaid handles the POST /mermaid request.
func (s *Server) Mermaid(w http.ResponseWriter, r *http.Request, params MermaidParams) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}

	var overlay *graph.GraphOverlay
	if params.Overlay != nil && *params.Overlay {
		overlay = graph.OverlayFor(validator.Validate(g, s.Catalog))
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(g, overlay))
}

// ListFunctions handles the GET /catalog request.
func (s *Server) ListFunctions(w http.ResponseWriter, r *http.Request, params ListFunctionsParams) {
	fns := s.Catalog.List()
	if params.Category != nil {
		filtered := fns[:0]
		for _, fn := range fns {
			if strings.EqualFold(fn.Category, *params.Category) {
				filtered = append(filtered, fn)
			}
		}
		fns = filtered
	}
	s.writeJSON(w, http.StatusOK, fns)
}

// GetFunction handles the GET /catalog/{name} request.
func (s *Server) GetFunction(w http.ResponseWriter, r *http.Request, name string) {
	fn, ok := s.Catalog.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("function not found: %s", name))
		return
	}
	s.writeJSON(w, http.StatusOK, fn)
}

// ListScripts handles the GET /scripts request.
func (s *Server) ListScripts(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.storeError(w, "ListScripts", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"scripts": names})
}

// GetScript handles the GET /scripts/{name} request.
func (s *Server) GetScript(w http.ResponseWriter, r *http.Request, name string) {
	script, ok := s.loadScript(w, r.Context(), name)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, ScriptDocument{
		ScriptSummary: summarize(script),
		Graph:         compiler.Encode(&script.Graph),
	})
}

// SaveScript handles the PUT /scripts/{name} request.
func (s *Server) SaveScript(w http.ResponseWriter, r *http.Request, name string) {
	if !s.requireStore(w) {
		return
	}
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}

	script := domain.NewScript(name, *g)
	// Announce under the lock so subscribers see events in store order.
	err := s.sessions.WithLock(r.Context(), name, func(ctx context.Context) error {
		if err := s.sessions.Store().Save(ctx, script); err != nil {
			return err
		}
		s.broadcast(ScriptEvent{Type: "saved", Name: name, ID: script.ID})
		return nil
	})
	if err != nil {
		s.storeError(w, "SaveScript", err)
		return
	}
	s.logger.Info("Script saved", "script", name, "id", script.ID, "nodes", len(g.Nodes))
	s.writeJSON(w, http.StatusOK, summarize(script))
}

// DeleteScript handles the DELETE /scripts/{name} request.
func (s *Server) DeleteScript(w http.ResponseWriter, r *http.Request, name string) {
	if !s.requireStore(w) {
		return
	}
	err := s.sessions.WithLock(r.Context(), name, func(ctx context.Context) error {
		if err := s.sessions.Store().Delete(ctx, name); err != nil {
			return err
		}
		s.broadcast(ScriptEvent{Type: "deleted", Name: name})
		return nil
	})
	if err != nil {
		s.storeError(w, "DeleteScript", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetScriptCode handles the GET /scripts/{name}/code request.
func (s *Server) GetScriptCode(w http.ResponseWriter, r *http.Request, name string) {
	script, ok := s.loadScript(w, r.Context(), name)
	if !ok {
		return
	}
	code, ok := s.generate(w, r, &script.Graph)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/x-lua; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+domain.ScriptExtension))
	io.WriteString(w, code)
}

// generate renders g, answering 413 when the script outgrows the budget.
func (s *Server) generate(w http.ResponseWriter, r *http.Request, g *domain.Graph) (string, bool) {
	code, err := s.Generator.Generate(r.Context(), g)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrOutputTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, status, err)
		return "", false
	}
	return code, true
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	topic := allScripts
	if params.Name != nil {
		topic = *params.Name
	}
	s.logger.Info("SSE: Subscribing to script changes", "script", topic)
	ch, cancel := s.Streams.Subscribe(topic)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (*domain.Graph, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("failed to read body: %w", err))
		return nil, false
	}
	g, err := s.Generator.Parse(r.Context(), data)
	if err != nil {
		s.logger.Warn("Invalid graph document", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return g, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("script storage is not configured"))
		return false
	}
	return true
}

func (s *Server) loadScript(w http.ResponseWriter, ctx context.Context, name string) (*domain.Script, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	script, err := s.Store.Load(ctx, name)
	if err != nil {
		s.storeError(w, "LoadScript", err)
		return nil, false
	}
	return script, true
}

func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrScriptNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrInvalidScriptName):
		writeError(w, http.StatusBadRequest, err)
	default:
		s.logger.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) broadcast(e ScriptEvent) {
	if payload, err := json.Marshal(e); err == nil {
		s.Streams.Broadcast(e.Name, string(payload))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func summarize(s *domain.Script) ScriptSummary {
	return ScriptSummary{ID: s.ID, Name: s.Name, SavedAt: s.SavedAt}
}
