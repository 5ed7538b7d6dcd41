package memoryDB

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/auramind/rag-api/internal/adapter/utils"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
)

type entry struct {
	id       string
	content  string
	metadata commonModels.ChunkMetadata
	vector   []float32
}

// MemoryIndex is a mutex-guarded cosine-scan index. It backs tests and serves
// as the fallback when qdrant is offline; contents do not survive a restart.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []entry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (m *MemoryIndex) Add(ctx context.Context, contents []string, metadatas []commonModels.ChunkMetadata, vectors [][]float32) error {
	if len(contents) != len(metadatas) || len(contents) != len(vectors) {
		return fmt.Errorf("%w: %d contents, %d metadatas, %d vectors",
			vectorDB.ErrArgumentMismatch, len(contents), len(metadatas), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range contents {
		m.entries = append(m.entries, entry{
			id:       utils.GetNewUUID(),
			content:  contents[i],
			metadata: metadatas[i],
			vector:   vectors[i],
		})
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]commonModels.SearchResult, 0, len(m.entries))
	for _, e := range m.entries {
		results = append(results, commonModels.SearchResult{
			Id:       e.id,
			Content:  e.content,
			Metadata: e.metadata,
			Distance: 1 - cosineSimilarity(vector, e.vector),
		})
	}

	// deterministic for a fixed index state: distance, then id
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Id < results[j].Id
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *MemoryIndex) DeleteByDocument(ctx context.Context, documentId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.entries[:0]
	for _, e := range m.entries {
		if e.metadata.DocumentId != documentId {
			kept = append(kept, e)
		}
	}
	m.entries = kept
	return nil
}

func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Count reports how many entries the index holds; used by tests.
func (m *MemoryIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
