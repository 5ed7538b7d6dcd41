package rag_test

import (
	"context"

	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/rag/llm"
)

// MockIndex implements vectorDB.Index
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnSearch func(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error)
	OnAdd    func(ctx context.Context, contents []string, metadatas []commonModels.ChunkMetadata, vectors [][]float32) error
	OnDelete func(ctx context.Context, documentId string) error
	OnReset  func(ctx context.Context) error

	AddCalls   int
	ResetCalls int
}

func (m *MockIndex) Add(ctx context.Context, contents []string, metadatas []commonModels.ChunkMetadata, vectors [][]float32) error {
	m.AddCalls++
	if m.OnAdd != nil {
		return m.OnAdd(ctx, contents, metadatas, vectors)
	}
	return nil
}

func (m *MockIndex) Search(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, k)
	}
	return []commonModels.SearchResult{
		{
			Id:      "hit-1",
			Content: "default context",
			Metadata: commonModels.ChunkMetadata{
				DocumentId: "doc-1",
				Pages:      "[1]",
				Filename:   "handbook.pdf",
			},
		},
	}, nil
}

func (m *MockIndex) DeleteByDocument(ctx context.Context, documentId string) error {
	if m.OnDelete != nil {
		return m.OnDelete(ctx, documentId)
	}
	return nil
}

func (m *MockIndex) Reset(ctx context.Context) error {
	m.ResetCalls++
	if m.OnReset != nil {
		return m.OnReset(ctx)
	}
	return nil
}

type MockEmbedder struct {
	OnEmbed      func(ctx context.Context, text string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string) ([][]float32, error)
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbed != nil {
		return m.OnEmbed(ctx, text)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.OnEmbedBatch != nil {
		return m.OnEmbedBatch(ctx, texts)
	}
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1}
	}
	return vectors, nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerateStream func(ctx context.Context, prompt string, passages []string, system string, onFragment llm.FragmentFunc) error
}

func (m *MockLLM) GenerateStream(ctx context.Context, prompt string, passages []string, system string, onFragment llm.FragmentFunc) error {
	if m.OnGenerateStream != nil {
		return m.OnGenerateStream(ctx, prompt, passages, system, onFragment)
	}
	for _, fragment := range []string{"mocked ", "llm ", "response"} {
		if err := onFragment(fragment); err != nil {
			return err
		}
	}
	return nil
}

// MockDocumentStore implements commonModels.DocumentStore
type MockDocumentStore struct {
	OnList      func(ctx context.Context) ([]commonModels.Document, error)
	OnSetStatus func(ctx context.Context, id string, status commonModels.DocumentStatus) error

	Statuses map[string]commonModels.DocumentStatus
}

func (m *MockDocumentStore) SaveDocument(ctx context.Context, doc commonModels.Document) error {
	return nil
}

func (m *MockDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, bool) {
	return commonModels.Document{}, false
}

func (m *MockDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	if m.OnList != nil {
		return m.OnList(ctx)
	}
	return nil, nil
}

func (m *MockDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return nil
}

func (m *MockDocumentStore) SetStatus(ctx context.Context, id string, status commonModels.DocumentStatus) error {
	if m.Statuses == nil {
		m.Statuses = make(map[string]commonModels.DocumentStatus)
	}
	m.Statuses[id] = status
	if m.OnSetStatus != nil {
		return m.OnSetStatus(ctx, id, status)
	}
	return nil
}

// MockHistoryStore implements commonModels.HistoryStore
type MockHistoryStore struct {
	OnAppendTurn func(ctx context.Context, conversationId string, user, bot commonModels.ConversationMessage) error

	SavedTurns []commonModels.ConversationMessage
}

func (m *MockHistoryStore) AppendTurn(ctx context.Context, conversationId string, user, bot commonModels.ConversationMessage) error {
	if m.OnAppendTurn != nil {
		return m.OnAppendTurn(ctx, conversationId, user, bot)
	}
	m.SavedTurns = append(m.SavedTurns, user, bot)
	return nil
}

func (m *MockHistoryStore) GetHistory(ctx context.Context, conversationId string) ([]commonModels.ConversationMessage, error) {
	return m.SavedTurns, nil
}
