package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/flowgen/internal/config"
	"github.com/aretw0/flowgen/pkg/adapters/file"
	"github.com/aretw0/flowgen/pkg/adapters/memory"
	"github.com/aretw0/flowgen/pkg/adapters/redis"
	"github.com/aretw0/flowgen/pkg/adapters/sqlite"
	"github.com/aretw0/flowgen/pkg/ports"
	"github.com/aretw0/flowgen/pkg/session"
)

// OpenStore creates the script store selected by the config. The returned
// close func releases backend connections and is never nil.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.ScriptStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		logger.Debug("Using memory script store")
		return memory.NewStore(), noop, nil

	case config.DriverFile, "":
		logger.Debug("Using file script store", "path", cfg.Path)
		return file.New(cfg.Path), noop, nil

	case config.DriverRedis:
		ttl, err := cfg.Redis.Expiration()
		if err != nil {
			return nil, noop, err
		}
		opts := []redis.Option{redis.WithTTL(ttl)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(redisPrefix(cfg.Redis.Prefix)))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, noop, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Using redis script store", "addr", cfg.Redis.Addr, "ttl", ttl)
		return store, store.Close, nil

	case config.DriverSQLite:
		path := sqlitePath(cfg.Path)
		store, err := sqlite.New(path)
		if err != nil {
			return nil, noop, fmt.Errorf("error opening sqlite store: %w", err)
		}
		logger.Debug("Using sqlite script store", "path", path)
		return store, store.Close, nil
	}

	return nil, noop, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// OpenSessions opens the configured store behind a session.Manager. Redis
// stores also get a distributed locker so replicas serialize writes.
func OpenSessions(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*session.Manager, func() error, error) {
	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, closeStore, err
	}

	opts := []session.Option{session.WithLogger(logger)}
	if rs, ok := store.(*redis.Store); ok {
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), lockPrefix(cfg.Redis.Prefix))))
	}
	return session.NewManager(store, opts...), closeStore, nil
}

// lockPrefix is the key prefix of script locks ("flowgen:lock:").
func lockPrefix(namespace string) string {
	if namespace == "" {
		return redis.DefaultLockPrefix
	}
	return strings.TrimSuffix(namespace, ":") + ":lock:"
}

// redisPrefix turns the configured namespace ("flowgen") into the key
// prefix used for scripts ("flowgen:script:").
func redisPrefix(namespace string) string {
	if strings.HasSuffix(namespace, ":") {
		return namespace
	}
	return namespace + ":script:"
}

// sqlitePath maps the shared store path ("scripts") to a database file.
func sqlitePath(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "flowgen.db"
	}
	if filepath.Ext(path) == "" {
		return path + ".db"
	}
	return path
}
