package store

import (
	"context"
	"sort"
	"sync"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

type InMemoryDocumentStore struct {
	docMutex *sync.RWMutex
	docMap   map[string]commonModels.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docMutex: new(sync.RWMutex),
		docMap:   make(map[string]commonModels.Document),
	}
}

func (store *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc commonModels.Document) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	store.docMap[doc.Id] = doc
	return nil
}

func (store *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, bool) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	doc, found := store.docMap[id]
	return doc, found
}

func (store *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	store.docMutex.RLock()
	defer store.docMutex.RUnlock()
	documents := make([]commonModels.Document, 0, len(store.docMap))
	for _, doc := range store.docMap {
		documents = append(documents, doc)
	}
	sort.Slice(documents, func(i, j int) bool {
		return documents[i].UploadedAt.Before(documents[j].UploadedAt)
	})
	return documents, nil
}

func (store *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	delete(store.docMap, id)
	return nil
}

func (store *InMemoryDocumentStore) SetStatus(ctx context.Context, id string, status commonModels.DocumentStatus) error {
	store.docMutex.Lock()
	defer store.docMutex.Unlock()
	doc, found := store.docMap[id]
	if !found {
		return nil
	}
	doc.Status = status
	store.docMap[id] = doc
	return nil
}
