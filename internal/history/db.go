// Package history keeps a local ledger of completed runs in a SQLite
// database under the workspace .anvil directory.
package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/anvilbuild/anvil/internal/errors"
)

// DBName is the ledger filename inside the state directory
const DBName = "anvil.db"

// Open opens (creating if needed) the run ledger in stateDir, applies
// the schema, and returns the connection. stateDir is normally
// <workspace>/.anvil.
func Open(ctx context.Context, stateDir string) (*sql.DB, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryOpen, "failed to create state directory", err)
	}

	dbPath := filepath.Join(stateDir, DBName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryOpen, "failed to open run ledger", err)
	}

	pragmas := []string{
		// Cascade deletes from runs to task_results
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(errors.ErrCodeHistoryOpen, "failed to configure run ledger", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeHistoryOpen, "run ledger ping failed", err)
	}

	// SQLite works best with a single writer connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeHistoryOpen, "failed to migrate run ledger", err)
	}

	return db, nil
}
