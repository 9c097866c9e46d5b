package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	return db
}

func TestHistoryRepo_AppendAndRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		turn := &SessionTurn{
			SessionID: "session-1",
			UserID:    "user-1",
			DocType:   "contracts",
			Question:  fmt.Sprintf("question %d", i),
			Answer:    fmt.Sprintf("answer %d", i),
		}
		if err := repo.Append(ctx, turn); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := repo.Recent(ctx, "contracts", "session-1", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}

	if len(turns) != 3 {
		t.Fatalf("Recent() returned %d turns, want 3", len(turns))
	}

	// Most recent first
	if turns[0].Question != "question 4" {
		t.Errorf("Recent() first turn = %q, want %q", turns[0].Question, "question 4")
	}
	if turns[2].Question != "question 2" {
		t.Errorf("Recent() last turn = %q, want %q", turns[2].Question, "question 2")
	}
}

func TestHistoryRepo_Recent_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)
	ctx := context.Background()

	seed := []SessionTurn{
		{SessionID: "s1", UserID: "u1", DocType: "contracts", Question: "q1", Answer: "a1"},
		{SessionID: "s1", UserID: "u1", DocType: "invoices", Question: "q2", Answer: "a2"},
		{SessionID: "s2", UserID: "u1", DocType: "contracts", Question: "q3", Answer: "a3"},
	}
	for i := range seed {
		if err := repo.Append(ctx, &seed[i]); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		docType   string
		sessionID string
		wantCount int
	}{
		{
			name:      "doc type and session",
			docType:   "contracts",
			sessionID: "s1",
			wantCount: 1,
		},
		{
			name:      "doc type only",
			docType:   "contracts",
			sessionID: "",
			wantCount: 2,
		},
		{
			name:      "session only",
			docType:   "",
			sessionID: "s1",
			wantCount: 2,
		},
		{
			name:      "no filters",
			docType:   "",
			sessionID: "",
			wantCount: 3,
		},
		{
			name:      "no matches",
			docType:   "reports",
			sessionID: "",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turns, err := repo.Recent(ctx, tt.docType, tt.sessionID, 10)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(turns) != tt.wantCount {
				t.Errorf("Recent() returned %d turns, want %d", len(turns), tt.wantCount)
			}
		})
	}
}

func TestHistoryRepo_Recent_DefaultLimit(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		turn := &SessionTurn{
			SessionID: "s1",
			UserID:    "u1",
			DocType:   "contracts",
			Question:  fmt.Sprintf("q%d", i),
			Answer:    fmt.Sprintf("a%d", i),
		}
		if err := repo.Append(ctx, turn); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	turns, err := repo.Recent(ctx, "", "s1", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != DefaultHistoryWindow {
		t.Errorf("Recent() with limit 0 returned %d turns, want %d", len(turns), DefaultHistoryWindow)
	}
}

func TestHistoryRepo_Recent_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepo(db)

	turns, err := repo.Recent(context.Background(), "contracts", "missing", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Recent() returned %d turns, want 0", len(turns))
	}
}
