package store

import (
	"context"
	"encoding/json"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/data/redisStore"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/pkg/logger_i"
)

const historyKeyPrefix = "chat:"

type RedisHistoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisHistoryStore(ctx context.Context) *RedisHistoryStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisHistoryStore)
	if inner == nil {
		return nil
	}
	return &RedisHistoryStore{
		store:  inner,
		logger: logger_i.NewLogger("HistoryStore"),
	}
}

// AppendTurn pushes both halves of the exchange in one call so history never
// holds a question without its answer.
func (s *RedisHistoryStore) AppendTurn(ctx context.Context, conversationId string, user, bot commonModels.ConversationMessage) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversationId", conversationId)
	userData, err := json.Marshal(user)
	if err != nil {
		return err
	}
	botData, err := json.Marshal(bot)
	if err != nil {
		return err
	}
	if err = s.store.ListPush(ctx, historyKeyPrefix+conversationId, userData, botData); err != nil {
		return err
	}
	log.Debug("Appended conversation turn")
	return nil
}

func (s *RedisHistoryStore) GetHistory(ctx context.Context, conversationId string) ([]commonModels.ConversationMessage, error) {
	raw, err := s.store.ListGetAll(ctx, historyKeyPrefix+conversationId)
	if err != nil {
		return nil, err
	}
	messages := make([]commonModels.ConversationMessage, 0, len(raw))
	for _, item := range raw {
		var msg commonModels.ConversationMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			s.logger.Warn("Skipping malformed history entry", "conversationId", conversationId)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func TestHistoryStore(store *redisStore.Store) *RedisHistoryStore {
	return &RedisHistoryStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
