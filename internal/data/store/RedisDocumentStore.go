package store

import (
	"context"
	"encoding/json"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/data/redisStore"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/pkg/logger_i"
)

const (
	documentKeyPrefix = "doc:"
	documentIndexKey  = "documents"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc commonModels.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "documentId", doc.Id)
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err = s.store.Set(ctx, documentKeyPrefix+doc.Id, data, 0); err != nil {
		return err
	}
	if err = s.store.SetAdd(ctx, documentIndexKey, doc.Id); err != nil {
		return err
	}
	log.Debug("Saved document record")
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, bool) {
	var doc commonModels.Document
	val, err := s.store.Get(ctx, documentKeyPrefix+id)
	if s.store.IsNil(err) || err != nil {
		return doc, false
	}
	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	ids, err := s.store.SetMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, err
	}
	documents := make([]commonModels.Document, 0, len(ids))
	for _, id := range ids {
		doc, found := s.GetDocument(ctx, id)
		if !found {
			// stale index entry, drop it
			_ = s.store.SetRemove(ctx, documentIndexKey, id)
			continue
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.Del(ctx, documentKeyPrefix+id); err != nil {
		return err
	}
	return s.store.SetRemove(ctx, documentIndexKey, id)
}

func (s *RedisDocumentStore) SetStatus(ctx context.Context, id string, status commonModels.DocumentStatus) error {
	doc, found := s.GetDocument(ctx, id)
	if !found {
		s.logger.Warn("SetStatus on unknown document", "documentId", id)
		return nil
	}
	doc.Status = status
	return s.SaveDocument(ctx, doc)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
