package storage

import (
	"context"
	"testing"
)

func TestUploadRepo_RecordAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUploadRepo(db)
	ctx := context.Background()

	records := []UploadRecord{
		{UploadID: "upload-1", UserID: "user-1", FileName: "contract.pdf", DocType: "contracts"},
		{UploadID: "upload-2", UserID: "user-1", FileName: "notes.md", DocType: "notes"},
		{UploadID: "upload-3", UserID: "user-2", FileName: "invoice.pdf", DocType: "invoices"},
	}
	for _, rec := range records {
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("ListByUser() returned %d records, want 2", len(got))
	}
	for _, rec := range got {
		if rec.UserID != "user-1" {
			t.Errorf("ListByUser() record user = %q, want user-1", rec.UserID)
		}
		if rec.CreatedAt.IsZero() {
			t.Errorf("ListByUser() record %q has zero CreatedAt", rec.UploadID)
		}
	}
}

func TestUploadRepo_Record_DuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUploadRepo(db)
	ctx := context.Background()

	rec := UploadRecord{UploadID: "upload-1", UserID: "user-1", FileName: "a.pdf", DocType: "contracts"}
	if err := repo.Record(ctx, rec); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, rec); err == nil {
		t.Error("Record() duplicate upload_id expected error, got nil")
	}
}

func TestUploadRepo_ListByUser_Empty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUploadRepo(db)

	got, err := repo.ListByUser(context.Background(), "missing-user")
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListByUser() returned %d records, want 0", len(got))
	}
}
