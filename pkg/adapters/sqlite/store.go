package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/flowgen/internal/compiler"
	"github.com/aretw0/flowgen/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS scripts (
		name TEXT PRIMARY KEY,
		id TEXT NOT NULL,
		body TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL
	)
`

// Store implements ports.ScriptStore on a single SQLite table.
// The script body is the same JSON document the file store writes.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite supports one writer at a time
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create scripts table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save upserts the script by name.
func (s *Store) Save(ctx context.Context, script *domain.Script) error {
	if err := domain.ValidateScriptName(script.Name); err != nil {
		return err
	}

	body, err := compiler.EncodeScript(script)
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scripts (name, id, body, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET id = excluded.id, body = excluded.body, saved_at = excluded.saved_at
	`, script.Name, script.ID, string(body), script.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save script: %w", err)
	}
	return nil
}

// Load retrieves a script by name.
func (s *Store) Load(ctx context.Context, name string) (*domain.Script, error) {
	if err := domain.ValidateScriptName(name); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM scripts WHERE name = ?", name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScriptNotFound
		}
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	return compiler.DecodeScript([]byte(body))
}

// Delete removes a script.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := domain.ValidateScriptName(name); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM scripts WHERE name = ?", name); err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}
	return nil
}

// List returns saved script names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM scripts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan script name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
