package embedding

import (
	"context"
	"errors"
)

// ErrEmbeddingUnavailable reports that the embedding backend is down or
// returned no vector. Batch calls fail atomically: no partial vector list.
var ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
