package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/flowgen"
	"github.com/aretw0/flowgen/internal/config"
	"github.com/aretw0/flowgen/internal/logging"
	"github.com/aretw0/flowgen/pkg/catalog"
)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath  string
	CatalogPath string
	Debug       bool
	Strict      bool
}

// Env is what commands need once flags and config are resolved.
type Env struct {
	Config    config.Config
	Logger    *slog.Logger
	Catalog   *catalog.Catalog
	Generator *flowgen.Generator
}

// Setup loads the config file and applies flag overrides on top.
func Setup(opts Options) (*Env, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		cfg.Strict = true
	}
	if opts.CatalogPath != "" {
		cfg.Catalog = opts.CatalogPath
	}

	logger, err := createLogger(cfg.LogLevel, opts.Debug)
	if err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if cfg.Catalog != "" {
		cat, err = catalog.Load(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("error loading catalog: %w", err)
		}
		logger.Debug("Catalog loaded", "path", cfg.Catalog, "functions", cat.Len())
	}

	return &Env{
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		Generator: flowgen.New(
			flowgen.WithLogger(logger),
			flowgen.WithStrict(cfg.Strict),
		),
	}, nil
}

// createLogger configures the application logger.
// It writes to Stderr so generated scripts on Stdout stay clean.
func createLogger(level string, debug bool) (*slog.Logger, error) {
	if debug {
		return logging.New(slog.LevelDebug), nil
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(lvl), nil
}
