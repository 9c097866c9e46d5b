package indexer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/mock/gomock"

	"sherlock/internal/vectorstore"
	"sherlock/internal/vectorstore/mocks"
)

// stubEmbedder returns a fixed-size vector per input text.
type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

func TestIndexDocument_WritesBothCollections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)

	var parentPoints, childPoints []vectorstore.Point
	store.EXPECT().Upsert(gomock.Any(), "parent_embedding", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			parentPoints = points
			return nil
		})
	store.EXPECT().Upsert(gomock.Any(), "child_embedding", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, points []vectorstore.Point) error {
			childPoints = points
			return nil
		})

	pipeline := NewPipeline(testBuilder(), &stubEmbedder{}, store, "parent_embedding", "child_embedding")

	pages := []string{"Page one text.", "Page two text."}
	if err := pipeline.IndexDocument(context.Background(), pages, "file-1", "reports"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(parentPoints) != 2 {
		t.Fatalf("expected 2 parent points, got %d", len(parentPoints))
	}
	if len(childPoints) == 0 {
		t.Fatal("expected child points")
	}

	parentIDs := make(map[string]bool)
	for _, point := range parentPoints {
		if point.ID != point.Meta.DocumentID {
			t.Fatalf("parent point id should equal its document id: %+v", point)
		}
		if len(point.Vec) != 3 {
			t.Fatalf("parent point missing embedding: %+v", point)
		}
		parentIDs[point.Meta.DocumentID] = true
	}
	for _, point := range childPoints {
		if !parentIDs[point.Meta.DocumentID] {
			t.Fatalf("child point references unknown parent: %+v", point)
		}
		if point.ID == point.Meta.DocumentID {
			t.Fatalf("child point should have its own id: %+v", point)
		}
		if len(point.Vec) != 3 {
			t.Fatalf("child point missing embedding: %+v", point)
		}
	}
}

func TestIndexDocument_ChildWriteFailureIsIncomplete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Upsert(gomock.Any(), "parent_embedding", gomock.Any()).Return(nil)
	store.EXPECT().Upsert(gomock.Any(), "child_embedding", gomock.Any()).Return(fmt.Errorf("qdrant down"))

	pipeline := NewPipeline(testBuilder(), &stubEmbedder{}, store, "parent_embedding", "child_embedding")

	err := pipeline.IndexDocument(context.Background(), []string{"Page one text."}, "file-1", "reports")
	if !errors.Is(err, ErrIndexWriteIncomplete) {
		t.Fatalf("expected ErrIndexWriteIncomplete, got %v", err)
	}
}

func TestIndexDocument_ParentWriteFailureIsPlainError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	store.EXPECT().Upsert(gomock.Any(), "parent_embedding", gomock.Any()).Return(fmt.Errorf("qdrant down"))

	pipeline := NewPipeline(testBuilder(), &stubEmbedder{}, store, "parent_embedding", "child_embedding")

	err := pipeline.IndexDocument(context.Background(), []string{"Page one text."}, "file-1", "reports")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrIndexWriteIncomplete) {
		t.Fatalf("nothing was written, error should not be incomplete: %v", err)
	}
}

func TestIndexDocument_EmbedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	pipeline := NewPipeline(testBuilder(), &stubEmbedder{err: fmt.Errorf("embed down")}, store, "parent_embedding", "child_embedding")

	if err := pipeline.IndexDocument(context.Background(), []string{"Page one text."}, "file-1", "reports"); err == nil {
		t.Fatal("expected error")
	}
}

func TestIndexDocument_InvalidDocument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockVectorStore(ctrl)
	pipeline := NewPipeline(testBuilder(), &stubEmbedder{}, store, "parent_embedding", "child_embedding")

	err := pipeline.IndexDocument(context.Background(), []string{""}, "file-1", "reports")
	if !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}
