package service

import (
	"context"
	"fmt"
	"strings"

	"sherlock/internal/contextutil"
	"sherlock/internal/storage"

	"github.com/google/uuid"
)

// Degraded answers returned when a collaborator is down. The request still
// succeeds so clients keep their session.
const (
	msgContextUnavailable = "The document context is currently unavailable. Please try again shortly."
	msgAnswerUnavailable  = "The answer service is currently unavailable. Please try again shortly."
)

// defaultContextSize is how many parent texts the answer prompt receives.
const defaultContextSize = 5

// Retriever selects parent texts relevant to a question within a doc_type
// scope.
type Retriever interface {
	Retrieve(ctx context.Context, question, docType string, k int) ([]string, error)
}

// Completer generates a completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnswerRequest is one conversational question.
type AnswerRequest struct {
	Question  string
	DocType   string
	UserID    string
	SessionID string
}

// AnswerResponse carries the answer plus the session id in effect and the
// question as the model actually saw it after history rewriting.
type AnswerResponse struct {
	Answer    string
	Question  string
	SessionID string
}

// ConversationService answers questions over a user's indexed documents. It
// rewrites follow-up questions against recent session history, retrieves
// context with the rewritten question, and persists the resulting turn.
type ConversationService struct {
	retriever Retriever
	completer Completer
	history   storage.HistoryStore
	docTypes  storage.DocTypeStore
}

// NewConversationService creates a ConversationService.
func NewConversationService(retriever Retriever, completer Completer, history storage.HistoryStore, docTypes storage.DocTypeStore) *ConversationService {
	return &ConversationService{
		retriever: retriever,
		completer: completer,
		history:   history,
		docTypes:  docTypes,
	}
}

// Answer handles one conversational turn. The session id is caller-supplied;
// when absent a fresh one is generated and returned so the caller can thread
// it through follow-ups.
func (s *ConversationService) Answer(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Question) == "" {
		return AnswerResponse{}, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if req.DocType == "" {
		return AnswerResponse{}, fmt.Errorf("%w: doc_type is required", ErrInvalidInput)
	}
	if req.UserID == "" {
		return AnswerResponse{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	known, err := s.docTypes.Exists(ctx, req.UserID, req.DocType)
	if err != nil {
		return AnswerResponse{}, fmt.Errorf("failed to check doc type: %w", err)
	}
	if !known {
		return AnswerResponse{}, fmt.Errorf("%w: %q", ErrUnknownDocType, req.DocType)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
		logger.DebugContext(ctx, "generated fresh session id", "session_id", sessionID)
	}

	question := s.rewriteQuestion(ctx, req.Question, req.DocType, sessionID)

	contexts, err := s.retriever.Retrieve(ctx, question, req.DocType, defaultContextSize)
	if err != nil {
		logger.ErrorContext(ctx, "retrieval failed", "error", err)
		return AnswerResponse{
			Answer:    msgContextUnavailable,
			Question:  question,
			SessionID: sessionID,
		}, nil
	}

	answer, err := s.completer.Complete(ctx, buildAnswerPrompt(question, contexts))
	if err != nil {
		logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return AnswerResponse{
			Answer:    msgAnswerUnavailable,
			Question:  question,
			SessionID: sessionID,
		}, nil
	}
	answer = strings.TrimSpace(answer)

	turn := &storage.SessionTurn{
		SessionID: sessionID,
		UserID:    req.UserID,
		DocType:   req.DocType,
		Question:  question,
		Answer:    answer,
	}
	if err := s.history.Append(ctx, turn); err != nil {
		// The answer is already produced; losing one history row only
		// weakens future rewrites.
		logger.WarnContext(ctx, "failed to persist session turn", "error", err)
	}

	return AnswerResponse{
		Answer:    answer,
		Question:  question,
		SessionID: sessionID,
	}, nil
}

// rewriteQuestion folds recent session history into a follow-up question.
// With no history the question passes through without an LLM call. Rewrite
// failures also fall back to the original question.
func (s *ConversationService) rewriteQuestion(ctx context.Context, question, docType, sessionID string) string {
	logger := contextutil.LoggerFromContext(ctx)

	turns, err := s.history.Recent(ctx, docType, sessionID, storage.DefaultHistoryWindow)
	if err != nil {
		logger.WarnContext(ctx, "failed to read session history", "error", err)
		return question
	}
	if len(turns) == 0 {
		return question
	}

	rewritten, err := s.completer.Complete(ctx, buildRewritePrompt(question, turns))
	if err != nil {
		logger.WarnContext(ctx, "question rewrite failed", "error", err)
		return question
	}
	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}

	logger.DebugContext(ctx, "question rewritten", "original", question, "rewritten", rewritten)
	return rewritten
}
