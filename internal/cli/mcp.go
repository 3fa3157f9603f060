package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aretw0/flowgen/pkg/adapters/mcp"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// ServeMCP exposes the generator as MCP tools over stdio or SSE.
func ServeMCP(ctx context.Context, env *Env, transport string, port int) error {
	store, closeStore, err := OpenSessions(ctx, env.Config.Store, env.Logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := mcp.NewServer(env.Generator,
		mcp.WithStore(store),
		mcp.WithCatalog(env.Catalog),
		mcp.WithLogger(env.Logger),
	)

	switch transport {
	case TransportStdio, "":
		env.Logger.Info("Starting flowgen MCP Server (Stdio)")
		return srv.ServeStdio()
	case TransportSSE:
		env.Logger.Info("Starting flowgen MCP Server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		env.Logger.Info("MCP Server stopped gracefully")
		return nil
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
}
