package store

import (
	"context"
	"sync"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

type InMemoryHistoryStore struct {
	chatLock *sync.RWMutex
	chatMap  map[string][]commonModels.ConversationMessage
}

func InitInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		chatLock: new(sync.RWMutex),
		chatMap:  make(map[string][]commonModels.ConversationMessage),
	}
}

func (store *InMemoryHistoryStore) AppendTurn(ctx context.Context, conversationId string, user, bot commonModels.ConversationMessage) error {
	store.chatLock.Lock()
	defer store.chatLock.Unlock()
	store.chatMap[conversationId] = append(store.chatMap[conversationId], user, bot)
	return nil
}

func (store *InMemoryHistoryStore) GetHistory(ctx context.Context, conversationId string) ([]commonModels.ConversationMessage, error) {
	store.chatLock.RLock()
	defer store.chatLock.RUnlock()
	history := store.chatMap[conversationId]
	out := make([]commonModels.ConversationMessage, len(history))
	copy(out, history)
	return out, nil
}
