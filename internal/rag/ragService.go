package rag

import (
	"context"
	"time"

	"github.com/auramind/rag-api/internal/adapter/utils"
	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/metrics"
	"github.com/auramind/rag-api/internal/rag/embedding"
	"github.com/auramind/rag-api/internal/rag/ingest"
	"github.com/auramind/rag-api/internal/rag/llm"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
	"github.com/auramind/rag-api/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - The PUBLIC contract the workers and handlers call.
  - It defines behavior only, never state.

2. service (Private Struct):
  - The PRIVATE implementation holding the vector index, embedder,
    LLM provider and stores. Lowercase so nothing outside this
    package can reach those dependencies directly.

3. Dependency Injection (NewService):
  - Links the private struct to the public interface and lets tests
    swap every dependency for a mock.
*/

// StreamEventType tags the frames an answer stream is made of.
type StreamEventType string

const (
	EventCitations StreamEventType = "citations"
	EventChunk     StreamEventType = "chunk"
	EventError     StreamEventType = "error"
	EventDone      StreamEventType = "done"
)

// StreamEvent is one frame of an answer stream. The citations frame always
// precedes the first chunk frame. An error frame is terminal: no done frame
// follows it.
type StreamEvent struct {
	Type      StreamEventType
	Citations []commonModels.Citation
	Text      string
	Message   string
}

// Service is what the workers and HTTP handlers see. They never touch the
// vector index or the LLM directly.
type Service interface {
	// IngestDocument runs the full ingestion pipeline for the job's document
	// and records the resulting document status.
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job

	// Answer streams a citation-backed answer for the query. The channel is
	// closed when the stream ends, whichever way it ends. Cancelling ctx
	// aborts generation.
	Answer(ctx context.Context, query string, k int, conversationId string) <-chan StreamEvent

	// DeleteDocument removes the document's vectors from the index. The
	// document record and the stored file are the caller's to clean up.
	DeleteDocument(ctx context.Context, documentId string) error

	// ReindexAll resets the vector index, flips every known document back to
	// pending and returns one queued job per document. The caller enqueues
	// them.
	ReindexAll(ctx context.Context) ([]jobModel.Job, error)
}

type service struct {
	index       vectorDB.Index
	embedder    embedding.Embedder
	llmProvider llm.Provider
	documents   commonModels.DocumentStore
	history     commonModels.HistoryStore
	logger      *logger_i.Logger
}

// NewService constructor
func NewService(index vectorDB.Index, provider llm.Provider, em embedding.Embedder, documents commonModels.DocumentStore, history commonModels.HistoryStore) Service {
	return &service{
		index:       index,
		embedder:    em,
		llmProvider: provider,
		documents:   documents,
		history:     history,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()

	result := ingest.ProcessDocument(ctx, job, s.embedder, s.index)

	if result.Status == jobModel.JobStatusComplete {
		if err := s.documents.SetStatus(ctx, result.DocumentId, commonModels.StatusProcessed); err != nil {
			s.logger.Error("Failed to mark document processed", "documentId", result.DocumentId, "error", err)
		}
		metrics.CaptureIngestOutcome("success")
		metrics.CaptureJobMetrics("success", time.Since(start))
		return result
	}

	if err := s.documents.SetStatus(ctx, result.DocumentId, commonModels.StatusError); err != nil {
		s.logger.Error("Failed to mark document errored", "documentId", result.DocumentId, "error", err)
	}
	metrics.CaptureIngestOutcome("error")
	metrics.CaptureJobMetrics("error", time.Since(start))
	return result
}

func (s *service) Answer(ctx context.Context, query string, k int, conversationId string) <-chan StreamEvent {
	events := make(chan StreamEvent)

	go func() {
		defer close(events)
		log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "conversationId", conversationId)

		if k <= 0 {
			k = config.TopKResults
		}

		results, err := s.retrieve(ctx, query, k)
		if err != nil {
			log.Error("Retrieval failed", "error", err)
			metrics.CaptureQueryOutcome("retrieval_error")
			s.send(ctx, events, StreamEvent{Type: EventError, Message: "Retrieval failed."})
			return
		}

		if len(results) == 0 {
			log.Info("No relevant context for query")
			metrics.CaptureQueryOutcome("no_context")
			s.send(ctx, events, StreamEvent{Type: EventError, Message: "No relevant context found."})
			return
		}

		citations := buildCitations(results)
		if !s.send(ctx, events, StreamEvent{Type: EventCitations, Citations: citations}) {
			return
		}

		passages := make([]string, 0, len(results))
		for _, r := range results {
			passages = append(passages, r.Content)
		}

		answer, err := s.generate(ctx, events, query, passages)
		if err != nil {
			if ctx.Err() != nil {
				// client went away, nothing left to tell it
				log.Info("Answer stream aborted by client")
				metrics.CaptureQueryOutcome("client_gone")
				return
			}
			log.Error("Generation failed", "error", err)
			metrics.CaptureQueryOutcome("generation_error")
			s.send(ctx, events, StreamEvent{Type: EventError, Message: "Answer generation failed."})
			return
		}

		//persist before signalling done so a client that exits on the
		//sentinel can immediately read the turn back from history
		s.persistTurn(ctx, log, conversationId, query, answer, citations)

		if !s.send(ctx, events, StreamEvent{Type: EventDone}) {
			return
		}
		metrics.CaptureQueryOutcome("success")
	}()

	return events
}

func (s *service) DeleteDocument(ctx context.Context, documentId string) error {
	start := time.Now()
	err := s.index.DeleteByDocument(ctx, documentId)
	metrics.CaptureExecutionMetrics("vector_delete", time.Since(start))
	if err != nil {
		s.logger.Error("Failed to delete document vectors", "documentId", documentId, "error", err)
	}
	return err
}

func (s *service) ReindexAll(ctx context.Context) ([]jobModel.Job, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	documents, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.index.Reset(ctx); err != nil {
		return nil, err
	}
	log.Info("Vector index reset for reindex", "documents", len(documents))

	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	jobs := make([]jobModel.Job, 0, len(documents))
	for _, doc := range documents {
		if err := s.documents.SetStatus(ctx, doc.Id, commonModels.StatusPending); err != nil {
			log.Error("Failed to reset document status", "documentId", doc.Id, "error", err)
		}
		jobs = append(jobs, jobModel.Job{
			Id:          utils.GetNewUUID(),
			TraceId:     traceId,
			DocumentId:  doc.Id,
			Filename:    doc.Filename,
			StoragePath: doc.StoragePath,
			CreatedTime: time.Now().UTC(),
			Status:      jobModel.JobStatusQueued,
			CurrentStep: jobModel.IngestInit,
		})
	}
	return jobs, nil
}
