package storage

import "time"

// SessionTurn is one persisted (question, answer) pair, keyed by session and
// doc_type scope. Turns are append-only and read in small recency-ordered
// windows.
type SessionTurn struct {
	SessionID string
	UserID    string
	DocType   string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// UploadRecord tracks one stored upload for a user.
type UploadRecord struct {
	UploadID  string
	UserID    string
	FileName  string
	DocType   string
	CreatedAt time.Time
}
