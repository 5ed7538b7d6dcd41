package rag

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/metrics"
	"github.com/auramind/rag-api/pkg/logger_i"
)

// send delivers one event unless the caller is gone. False means stop
// producing.
func (s *service) send(ctx context.Context, events chan<- StreamEvent, ev StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *service) retrieve(ctx context.Context, query string, k int) ([]commonModels.SearchResult, error) {
	embedStart := time.Now()
	vector, err := s.embedder.Embed(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		return nil, err
	}

	searchStart := time.Now()
	results, err := s.index.Search(ctx, vector, k)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(searchStart))
	return results, err
}

func (s *service) generate(ctx context.Context, events chan<- StreamEvent, query string, passages []string) (string, error) {
	var answer strings.Builder

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	err := s.llmProvider.GenerateStream(ctx, query, passages, config.SystemInstruction, func(fragment string) error {
		answer.WriteString(fragment)
		if !s.send(ctx, events, StreamEvent{Type: EventChunk, Text: fragment}) {
			return ctx.Err()
		}
		return nil
	})
	return answer.String(), err
}

// persistTurn saves the exchange after a successful stream. A store failure is
// logged and swallowed; the client already has its answer.
func (s *service) persistTurn(ctx context.Context, log *logger_i.Logger, conversationId, query, answer string, citations []commonModels.Citation) {
	if conversationId == "" {
		return
	}
	now := time.Now().UTC()
	user := commonModels.ConversationMessage{Role: "user", Content: query, CreatedAt: now}
	bot := commonModels.ConversationMessage{Role: "bot", Content: answer, Citations: citations, CreatedAt: now}

	if err := s.history.AppendTurn(ctx, conversationId, user, bot); err != nil {
		log.Error("Failed to persist conversation turn", "error", err)
	}
}

func buildCitations(results []commonModels.SearchResult) []commonModels.Citation {
	citations := make([]commonModels.Citation, 0, len(results))
	for _, r := range results {
		preview := r.Content
		if len(preview) > config.CitationPreviewLength {
			cut := config.CitationPreviewLength
			//never split a multi-byte rune
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}

		pages := r.Metadata.Pages
		if pages == "" {
			pages = "Unknown"
		}
		name := r.Metadata.Filename
		if name == "" {
			name = "Unknown"
		}

		citations = append(citations, commonModels.Citation{
			Content:      preview,
			Pages:        pages,
			DocumentName: name,
			DocumentId:   r.Metadata.DocumentId,
		})
	}
	return citations
}
