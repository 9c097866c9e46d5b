package handlers

import (
	"net/http"
	"time"

	"sherlock/internal/contextutil"
	"sherlock/internal/storage"
)

// UploadListHandler handles HTTP requests for listing a user's uploads.
type UploadListHandler struct {
	uploads storage.UploadStore
}

// NewUploadListHandler creates a new UploadListHandler.
func NewUploadListHandler(uploads storage.UploadStore) *UploadListHandler {
	return &UploadListHandler{uploads: uploads}
}

// UploadEntry is one upload in the listing response.
type UploadEntry struct {
	UploadID  string `json:"upload_id"`
	FileName  string `json:"file_name"`
	DocType   string `json:"doc_type"`
	CreatedAt string `json:"created_at"`
}

// ListUploadsResponse lists a user's uploads, most recent first.
type ListUploadsResponse struct {
	Uploads []UploadEntry `json:"uploads"`
}

// ServeHTTP handles HTTP requests for listing uploads.
func (h *UploadListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	records, err := h.uploads.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list uploads", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}

	entries := make([]UploadEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, UploadEntry{
			UploadID:  rec.UploadID,
			FileName:  rec.FileName,
			DocType:   rec.DocType,
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, ListUploadsResponse{Uploads: entries})
}
