package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// UploadStore defines the interface for document upload bookkeeping.
type UploadStore interface {
	// Record persists a row for a successfully indexed upload.
	Record(ctx context.Context, rec UploadRecord) error
	// ListByUser returns a user's uploads, most recent first.
	ListByUser(ctx context.Context, userID string) ([]UploadRecord, error)
}

// UploadRepo provides methods for upload record operations.
// It implements the UploadStore interface.
type UploadRepo struct {
	db *sql.DB
}

// NewUploadRepo creates a new UploadRepo.
func NewUploadRepo(db *sql.DB) *UploadRepo {
	return &UploadRepo{db: db}
}

// Record persists a row for a successfully indexed upload.
func (r *UploadRepo) Record(ctx context.Context, rec UploadRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO document_uploads (upload_id, user_id, file_name, doc_type, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)",
		rec.UploadID, rec.UserID, rec.FileName, rec.DocType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload record: %w", err)
	}
	return nil
}

// ListByUser returns a user's uploads, most recent first.
func (r *UploadRepo) ListByUser(ctx context.Context, userID string) ([]UploadRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT upload_id, user_id, file_name, doc_type, created_at FROM document_uploads WHERE user_id = ? ORDER BY created_at DESC, upload_id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query upload records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []UploadRecord
	for rows.Next() {
		var rec UploadRecord
		var createdAt string
		if err := rows.Scan(&rec.UploadID, &rec.UserID, &rec.FileName, &rec.DocType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan upload record: %w", err)
		}
		rec.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}
