// Package sqlite provides a SQLite-backed implementation of the
// storage.Store interface, used both as the device-local document cache and
// as the sync server's backing store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

// Ensure SQLiteStore implements the storage interfaces.
var (
	_ storage.Store        = (*SQLiteStore)(nil)
	_ storage.AccountStore = (*SQLiteStore)(nil)
)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put inserts or replaces the document with the entity's id.
func (s *SQLiteStore) Put(ctx context.Context, e models.Entity) error {
	body, err := models.MarshalDocument(e)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, kind, owner, name, body, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     kind = excluded.kind,
		     owner = excluded.owner,
		     name = excluded.name,
		     body = excluded.body,
		     updated_at = excluded.updated_at`,
		e.UUID().String(), e.Kind().String(), ownerColumn(e), e.Name(), string(body), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// Get retrieves a document by id.
func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (models.Entity, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE id = ?", id.String(),
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewDocumentError("get", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return models.UnmarshalDocument([]byte(body))
}

// Delete removes a document by id.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return models.NewDocumentError("delete", id, models.ErrNotFound)
	}
	return nil
}

// ListByKind retrieves all documents of one kind, optionally narrowed to an
// owner id.
func (s *SQLiteStore) ListByKind(ctx context.Context, kind models.Kind, owner uuid.UUID) ([]models.Entity, error) {
	query := "SELECT body FROM documents WHERE kind = ? ORDER BY updated_at"
	args := []any{kind.String()}
	if owner != uuid.Nil {
		query = "SELECT body FROM documents WHERE kind = ? AND owner = ? ORDER BY updated_at"
		args = append(args, owner.String())
	}
	return s.queryDocuments(ctx, query, args...)
}

// ListAll retrieves every document in the store.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Entity, error) {
	return s.queryDocuments(ctx, "SELECT body FROM documents ORDER BY updated_at")
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, query string, args ...any) ([]models.Entity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		e, err := models.UnmarshalDocument([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return entities, nil
}

func ownerColumn(e models.Entity) string {
	if owner := models.Owner(e); owner != uuid.Nil {
		return owner.String()
	}
	return ""
}
