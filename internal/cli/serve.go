package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/flowgen"
	httpAdapter "github.com/aretw0/flowgen/pkg/adapters/http"
	"github.com/aretw0/flowgen/pkg/observability"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewServerHandler assembles the HTTP API for the given environment.
// When metrics are enabled, generations are counted on a dedicated registry
// exposed at /metrics.
func NewServerHandler(env *Env, store ports.ScriptStore) http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithCatalog(env.Catalog),
		httpAdapter.WithLogger(env.Logger),
	}
	if store != nil {
		opts = append(opts, httpAdapter.WithStore(store))
	}

	gen := env.Generator
	if env.Config.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		gen = flowgen.New(
			flowgen.WithLogger(env.Logger),
			flowgen.WithStrict(env.Config.Strict),
			flowgen.WithHooks(metrics.Hooks()),
		)
		opts = append(opts, httpAdapter.WithGatherer(reg))
	}

	return httpAdapter.NewHandler(gen, opts...)
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, env *Env, port int) error {
	store, closeStore, err := OpenSessions(ctx, env.Config.Store, env.Logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewServerHandler(env, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		env.Logger.Info("Starting flowgen Server", "address", srv.Addr, "store", env.Config.Store.Driver)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		env.Logger.Info("Start shutdown")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Warn("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		env.Logger.Info("flowgen Server stopped gracefully")
		return nil
	}
}
