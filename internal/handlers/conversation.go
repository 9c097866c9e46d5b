package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"sherlock/internal/contextutil"
	"sherlock/internal/service"
)

// Answerer handles one conversational turn.
type Answerer interface {
	Answer(ctx context.Context, req service.AnswerRequest) (service.AnswerResponse, error)
}

// ConversationHandler handles HTTP requests for conversational QA.
type ConversationHandler struct {
	svc Answerer
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(svc Answerer) *ConversationHandler {
	return &ConversationHandler{svc: svc}
}

// ConversationRequest represents the HTTP request payload for a question.
type ConversationRequest struct {
	Question  string `json:"question"`
	DocType   string `json:"doc_type"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id,omitempty"`
}

// ConversationResponse represents the HTTP response payload. Question carries
// the question as the model saw it after history rewriting; SessionID is the
// id the caller should thread through follow-up turns.
type ConversationResponse struct {
	Answer    string `json:"answer"`
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles HTTP requests for conversational QA.
func (h *ConversationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.svc.Answer(ctx, service.AnswerRequest{
		Question:  req.Question,
		DocType:   req.DocType,
		UserID:    req.UserID,
		SessionID: req.SessionID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			logger.WarnContext(ctx, "invalid conversation request", "error", err)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUnknownDocType):
			logger.WarnContext(ctx, "unknown doc type", "doc_type", req.DocType)
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			logger.ErrorContext(ctx, "conversation failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to answer question")
		}
		return
	}

	writeJSON(w, http.StatusOK, ConversationResponse{
		Answer:    resp.Answer,
		Question:  resp.Question,
		SessionID: resp.SessionID,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}
