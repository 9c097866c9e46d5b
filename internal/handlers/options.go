package handlers

import (
	"encoding/json"
	"net/http"

	"sherlock/internal/contextutil"
	"sherlock/internal/storage"
)

// OptionsHandler handles HTTP requests for the document-type registry.
type OptionsHandler struct {
	docTypes storage.DocTypeStore
}

// NewOptionsHandler creates a new OptionsHandler.
func NewOptionsHandler(docTypes storage.DocTypeStore) *OptionsHandler {
	return &OptionsHandler{docTypes: docTypes}
}

// AddOptionRequest registers a doc type for a user.
type AddOptionRequest struct {
	UserID  string `json:"user_id"`
	DocType string `json:"doc_type"`
}

// AddOptionResponse confirms a registration.
type AddOptionResponse struct {
	Message string `json:"message"`
}

// ListOptionsResponse lists a user's registered doc types.
type ListOptionsResponse struct {
	DocTypes []string `json:"doc_types"`
}

// ServeHTTP routes registry reads and writes.
func (h *OptionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.add(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *OptionsHandler) add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AddOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || req.DocType == "" {
		writeError(w, http.StatusBadRequest, "user_id and doc_type are required")
		return
	}

	if err := h.docTypes.Add(ctx, req.UserID, req.DocType); err != nil {
		logger.ErrorContext(ctx, "failed to add doc type", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to add doc type")
		return
	}

	logger.InfoContext(ctx, "doc type registered", "user_id", req.UserID, "doc_type", req.DocType)
	writeJSON(w, http.StatusCreated, AddOptionResponse{
		Message: "Doc type added successfully.",
	})
}

func (h *OptionsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	docTypes, err := h.docTypes.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list doc types", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list doc types")
		return
	}
	if docTypes == nil {
		docTypes = []string{}
	}

	writeJSON(w, http.StatusOK, ListOptionsResponse{DocTypes: docTypes})
}
