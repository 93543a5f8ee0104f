package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/gcbaptista/go-site-index/internal/logger"
	"github.com/gcbaptista/go-site-index/model"
	"github.com/gcbaptista/go-site-index/services"
)

const createChunksTable = `
CREATE TABLE IF NOT EXISTS index_chunks (
	position INTEGER NOT NULL,
	key      TEXT    NOT NULL PRIMARY KEY,
	data     TEXT    NOT NULL
)`

// SQLiteStore keeps the index artifact as one row per chunk in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ services.IndexStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path. A relative path is resolved against baseDir.
func NewSQLiteStore(baseDir, path string) (*SQLiteStore, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createChunksTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index_chunks table: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Import reads every chunk in write order. An empty table or an unreadable database yields nil, nil.
func (s *SQLiteStore) Import(ctx context.Context) (*model.SearchIndexData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, data FROM index_chunks ORDER BY position`)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("failed to query index chunks in %s: %v", s.path, err)
		return nil, nil
	}
	defer rows.Close()

	data := model.NewSearchIndexData()
	for rows.Next() {
		var key, payload string
		if err := rows.Scan(&key, &payload); err != nil {
			logger.Warn("failed to read index chunk row in %s: %v", s.path, err)
			return nil, nil
		}
		data.Put(key, payload)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("failed to iterate index chunks in %s: %v", s.path, err)
		return nil, nil
	}

	if !data.Valid() {
		logger.Debug("no index artifact in %s", s.path)
		return nil, nil
	}
	return data, nil
}

// Export replaces the stored chunks inside a single transaction. Existing chunks are kept
// unless opts.Override is set.
func (s *SQLiteStore) Export(ctx context.Context, data *model.SearchIndexData, opts services.ExportOptions) error {
	if _, err := encodeArtifact(data); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if !opts.Override {
		var existing int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM index_chunks`).Scan(&existing); err != nil {
			return fmt.Errorf("counting index chunks: %w", err)
		}
		if existing > 0 {
			logger.Info("index artifact in %s already exists, keeping it", s.path)
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM index_chunks`); err != nil {
		return fmt.Errorf("clearing index chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO index_chunks (position, key, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer stmt.Close()

	for position, key := range data.Keys {
		if _, err := stmt.ExecContext(ctx, position, key, data.Data[key]); err != nil {
			return fmt.Errorf("inserting chunk %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing index chunks: %w", err)
	}

	logger.Info("index artifact written to %s (%d chunks)", s.path, len(data.Keys))
	return nil
}
