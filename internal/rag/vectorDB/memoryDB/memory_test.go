package memoryDB

import (
	"context"
	"errors"
	"testing"

	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
)

func seed(t *testing.T, idx *MemoryIndex) {
	t.Helper()
	err := idx.Add(context.Background(),
		[]string{"alpha content", "beta content", "gamma content"},
		[]commonModels.ChunkMetadata{
			{DocumentId: "doc-1", Pages: "[1]", Filename: "a.pdf"},
			{DocumentId: "doc-1", Pages: "[2]", Filename: "a.pdf"},
			{DocumentId: "doc-2", Pages: "[1]", Filename: "b.pdf"},
		},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{0, 0, 1},
		},
	)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
}

func TestSearchReturnsBestMatchFirst(t *testing.T) {
	idx := NewMemoryIndex()
	seed(t, idx)

	results, err := idx.Search(context.Background(), []float32{0, 1, 0}, 1)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Content != "beta content" {
		t.Errorf("top result got %q, want %q", results[0].Content, "beta content")
	}
	if results[0].Metadata.DocumentId != "doc-1" {
		t.Errorf("top result document got %q, want doc-1", results[0].Metadata.DocumentId)
	}
}

func TestSearchOrderingAndTruncation(t *testing.T) {
	idx := NewMemoryIndex()
	seed(t, idx)

	results, err := idx.Search(context.Background(), []float32{1, 0.5, 0}, 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Distance > results[1].Distance {
		t.Errorf("results not in ascending distance order: %v then %v",
			results[0].Distance, results[1].Distance)
	}
	if results[0].Content != "alpha content" {
		t.Errorf("top result got %q, want %q", results[0].Content, "alpha content")
	}
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx := NewMemoryIndex()
	seed(t, idx)

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected all 3 entries, got %d", len(results))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := NewMemoryIndex()

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search on empty index must not error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result, got %d entries", len(results))
	}
}

func TestDeleteByDocument(t *testing.T) {
	idx := NewMemoryIndex()
	seed(t, idx)

	if err := idx.DeleteByDocument(context.Background(), "doc-1"); err != nil {
		t.Fatalf("DeleteByDocument failed: %v", err)
	}
	if idx.Count() != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", idx.Count())
	}

	results, err := idx.Search(context.Background(), []float32{0, 0, 1}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 || results[0].Metadata.DocumentId != "doc-2" {
		t.Errorf("unrelated document was not preserved: %+v", results)
	}

	// deleting an absent document is a no-op, not an error
	if err := idx.DeleteByDocument(context.Background(), "ghost"); err != nil {
		t.Errorf("DeleteByDocument on absent id must not error, got %v", err)
	}
	if idx.Count() != 1 {
		t.Errorf("no-op delete changed entry count to %d", idx.Count())
	}
}

func TestReset(t *testing.T) {
	idx := NewMemoryIndex()
	seed(t, idx)

	if err := idx.Reset(context.Background()); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Search after reset failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty search after reset, got %d entries", len(results))
	}
}

func TestAddLengthMismatch(t *testing.T) {
	idx := NewMemoryIndex()
	err := idx.Add(context.Background(),
		[]string{"one", "two"},
		[]commonModels.ChunkMetadata{{DocumentId: "doc-1"}},
		[][]float32{{1}, {2}},
	)
	if !errors.Is(err, vectorDB.ErrArgumentMismatch) {
		t.Errorf("expected ErrArgumentMismatch, got %v", err)
	}
}
