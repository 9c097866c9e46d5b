package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	vectorstore_mocks "sherlock/internal/vectorstore/mocks"

	"go.uber.org/mock/gomock"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name           string
		parentExists   bool
		parentErr      error
		childExists    bool
		childErr       error
		expectedStatus int
		wantStatus     string
	}{
		{
			name:           "both collections healthy",
			parentExists:   true,
			childExists:    true,
			expectedStatus: http.StatusOK,
			wantStatus:     "healthy",
		},
		{
			name:           "child collection missing",
			parentExists:   true,
			childExists:    false,
			expectedStatus: http.StatusServiceUnavailable,
			wantStatus:     "unhealthy",
		},
		{
			name:           "vector store unreachable",
			parentErr:      errors.New("connection refused"),
			childErr:       errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			wantStatus:     "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockStore := vectorstore_mocks.NewMockVectorStore(ctrl)
			mockStore.EXPECT().CollectionExists(gomock.Any(), "parent_embedding").Return(tt.parentExists, tt.parentErr)
			mockStore.EXPECT().CollectionExists(gomock.Any(), "child_embedding").Return(tt.childExists, tt.childErr)

			handler := NewHealthHandler(mockStore, "parent_embedding", "child_embedding")

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Errorf("health status = %q, want %q", resp.Status, tt.wantStatus)
			}
		})
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewHealthHandler(vectorstore_mocks.NewMockVectorStore(ctrl), "parent_embedding", "child_embedding")

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
