package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_history_store.go -package=mocks sherlock/internal/storage HistoryStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultHistoryWindow bounds how many turns a history read returns when the
// caller does not say.
const DefaultHistoryWindow = 3

// HistoryStore defines the interface for session-turn storage operations.
type HistoryStore interface {
	// Append inserts a new session turn. Turns are never mutated.
	Append(ctx context.Context, turn *SessionTurn) error
	// Recent returns up to limit turns most recent first, optionally scoped
	// by doc_type and/or session_id (empty string means no filter).
	Recent(ctx context.Context, docType, sessionID string, limit int) ([]SessionTurn, error)
}

// HistoryRepo provides methods for session-turn operations.
// It implements the HistoryStore interface.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo creates a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Append inserts a new session turn.
func (r *HistoryRepo) Append(ctx context.Context, turn *SessionTurn) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO session_turns (session_id, user_id, doc_type, question, answer) VALUES (?, ?, ?, ?, ?)",
		turn.SessionID, turn.UserID, turn.DocType, turn.Question, turn.Answer,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session turn: %w", err)
	}
	return nil
}

// Recent returns up to limit turns most recent first. Returns an empty slice
// when no turns match (not an error).
func (r *HistoryRepo) Recent(ctx context.Context, docType, sessionID string, limit int) ([]SessionTurn, error) {
	if limit <= 0 {
		limit = DefaultHistoryWindow
	}

	query := "SELECT session_id, user_id, doc_type, question, answer, created_at FROM session_turns WHERE 1=1"
	var params []any

	if docType != "" {
		query += " AND doc_type = ?"
		params = append(params, docType)
	}
	if sessionID != "" {
		query += " AND session_id = ?"
		params = append(params, sessionID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	params = append(params, limit)

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session turns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var turns []SessionTurn
	for rows.Next() {
		var turn SessionTurn
		var createdAtStr string
		if err := rows.Scan(&turn.SessionID, &turn.UserID, &turn.DocType, &turn.Question, &turn.Answer, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan session turn: %w", err)
		}
		turn.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return turns, nil
}
