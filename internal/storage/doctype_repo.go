package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_doctype_store.go -package=mocks sherlock/internal/storage DocTypeStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocTypeStore defines the interface for the document-type registry.
// The core treats doc_type as an opaque scoping string; this registry only
// tracks which values a user has declared.
type DocTypeStore interface {
	// Add registers a doc type for a user. Adding an existing pair is a no-op.
	Add(ctx context.Context, userID, docType string) error
	// ListByUser returns all doc types registered by a user.
	ListByUser(ctx context.Context, userID string) ([]string, error)
	// Exists reports whether the user has registered the doc type.
	Exists(ctx context.Context, userID, docType string) (bool, error)
}

// DocTypeRepo provides methods for document-type registry operations.
// It implements the DocTypeStore interface.
type DocTypeRepo struct {
	db *sql.DB
}

// NewDocTypeRepo creates a new DocTypeRepo.
func NewDocTypeRepo(db *sql.DB) *DocTypeRepo {
	return &DocTypeRepo{db: db}
}

// Add registers a doc type for a user.
func (r *DocTypeRepo) Add(ctx context.Context, userID, docType string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO user_doc_types (user_id, doc_type) VALUES (?, ?)",
		userID, docType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert doc type: %w", err)
	}
	return nil
}

// ListByUser returns all doc types registered by a user, ordered by name.
// Returns an empty slice if none exist (not an error).
func (r *DocTypeRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT doc_type FROM user_doc_types WHERE user_id = ? ORDER BY doc_type",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query doc types: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docTypes []string
	for rows.Next() {
		var docType string
		if err := rows.Scan(&docType); err != nil {
			return nil, fmt.Errorf("failed to scan doc type: %w", err)
		}
		docTypes = append(docTypes, docType)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docTypes, nil
}

// Exists reports whether the user has registered the doc type.
func (r *DocTypeRepo) Exists(ctx context.Context, userID, docType string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM user_doc_types WHERE user_id = ? AND doc_type = ?",
		userID, docType,
	).Scan(&one)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query doc type: %w", err)
	}
	return true, nil
}
