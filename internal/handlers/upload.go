package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"sherlock/internal/contextutil"
	"sherlock/internal/extract"
	"sherlock/internal/storage"

	"github.com/google/uuid"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// DocumentIndexer builds and writes the chunk hierarchy for a document.
type DocumentIndexer interface {
	IndexDocument(ctx context.Context, pages []string, fileID, docType string) error
}

// UploadHandler handles HTTP requests for document uploads.
type UploadHandler struct {
	indexer    DocumentIndexer
	extractors *extract.Registry
	uploads    storage.UploadStore
	docTypes   storage.DocTypeStore
	uploadDir  string
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(indexer DocumentIndexer, extractors *extract.Registry, uploads storage.UploadStore, docTypes storage.DocTypeStore, uploadDir string) *UploadHandler {
	return &UploadHandler{
		indexer:    indexer,
		extractors: extractors,
		uploads:    uploads,
		docTypes:   docTypes,
		uploadDir:  uploadDir,
	}
}

// FileFailure reports why one file of a batch was not indexed.
type FileFailure struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// UploadResponse reports the batch outcome. A batch can partially succeed;
// each failed file carries its own reason.
type UploadResponse struct {
	Message  string        `json:"message"`
	Failures []FileFailure `json:"failures,omitempty"`
}

// ServeHTTP handles multipart document uploads. Each file is stored under the
// upload directory, split into pages, and indexed independently.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	userID := r.FormValue("user_id")
	docType := r.FormValue("doc_type")
	if userID == "" || docType == "" {
		writeError(w, http.StatusBadRequest, "user_id and doc_type are required")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	// Registering here keeps the registry consistent with what is indexed.
	if err := h.docTypes.Add(ctx, userID, docType); err != nil {
		logger.ErrorContext(ctx, "failed to register doc type", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to register doc type")
		return
	}

	var failures []FileFailure
	processed := 0

	for _, fileHeader := range files {
		if err := h.processFile(ctx, fileHeader, userID, docType); err != nil {
			logger.WarnContext(ctx, "file not indexed",
				"file_name", fileHeader.Filename,
				"error", err,
			)
			failures = append(failures, FileFailure{
				FileName: fileHeader.Filename,
				Reason:   err.Error(),
			})
			continue
		}
		processed++
	}

	logger.InfoContext(ctx, "upload batch completed",
		"user_id", userID,
		"doc_type", docType,
		"processed", processed,
		"failed", len(failures),
	)

	status := http.StatusOK
	if processed == 0 {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, UploadResponse{
		Message:  fmt.Sprintf("Successfully uploaded and processed %d files.", processed),
		Failures: failures,
	})
}

// processFile stores one uploaded file, extracts its pages, and indexes it.
func (h *UploadHandler) processFile(ctx context.Context, fileHeader *multipart.FileHeader, userID, docType string) error {
	name := fileHeader.Filename
	extractor, ok := h.extractors.ForFile(name)
	if !ok {
		return fmt.Errorf("unsupported file type: %s", filepath.Ext(name))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	content, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("failed to read uploaded file: %w", err)
	}

	userDir := filepath.Join(h.uploadDir, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	destPath := filepath.Join(userDir, filepath.Base(name))
	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to store uploaded file: %w", err)
	}

	pages, err := extractor.Pages(content)
	if err != nil {
		return fmt.Errorf("failed to extract pages: %w", err)
	}

	fileID := uuid.NewString()
	if err := h.indexer.IndexDocument(ctx, pages, fileID, docType); err != nil {
		return fmt.Errorf("failed to index document: %w", err)
	}

	if err := h.uploads.Record(ctx, storage.UploadRecord{
		UploadID: fileID,
		UserID:   userID,
		FileName: filepath.Base(name),
		DocType:  docType,
	}); err != nil {
		// The document is already searchable; bookkeeping only.
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record upload",
			"file_name", name, "error", err)
	}

	return nil
}
