package vectorDB

import (
	"context"
	"errors"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

// ErrArgumentMismatch reports Add being called with unequal slice lengths.
var ErrArgumentMismatch = errors.New("chunks, metadatas and vectors must have equal length")

// Index is one logical collection of chunk vectors. Adding the same chunks
// twice duplicates entries; callers must not double-ingest a document.
type Index interface {
	// Add appends entries with freshly generated unique ids.
	Add(ctx context.Context, contents []string, metadatas []commonModels.ChunkMetadata, vectors [][]float32) error

	// Search returns up to k entries ordered by ascending distance. An empty
	// index yields an empty result, not an error.
	Search(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error)

	// DeleteByDocument removes every entry for the document; no-op when the
	// document has none.
	DeleteByDocument(ctx context.Context, documentId string) error

	// Reset drops and recreates the collection. Not reversible.
	Reset(ctx context.Context) error
}
