package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/rag"
	"github.com/auramind/rag-api/internal/rag/llm"
)

func newTestService(index *MockIndex, provider *MockLLM, embedder *MockEmbedder, docs *MockDocumentStore, history *MockHistoryStore) rag.Service {
	if index == nil {
		index = &MockIndex{}
	}
	if provider == nil {
		provider = &MockLLM{}
	}
	if embedder == nil {
		embedder = &MockEmbedder{}
	}
	if docs == nil {
		docs = &MockDocumentStore{}
	}
	if history == nil {
		history = &MockHistoryStore{}
	}
	return rag.NewService(index, provider, embedder, docs, history)
}

func drain(t *testing.T, events <-chan rag.StreamEvent) []rag.StreamEvent {
	t.Helper()
	var collected []rag.StreamEvent
	for ev := range events {
		collected = append(collected, ev)
	}
	return collected
}

func TestAnswer_CitationsArriveBeforeFragments(t *testing.T) {
	history := &MockHistoryStore{}
	svc := newTestService(nil, nil, nil, nil, history)

	events := drain(t, svc.Answer(context.Background(), "what is the policy?", 3, "conv-1"))

	if len(events) < 3 {
		t.Fatalf("expected citations, chunks and done, got %d events", len(events))
	}
	if events[0].Type != rag.EventCitations {
		t.Fatalf("first event = %s, want citations", events[0].Type)
	}
	if len(events[0].Citations) != 1 || events[0].Citations[0].DocumentName != "handbook.pdf" {
		t.Errorf("unexpected citations: %+v", events[0].Citations)
	}

	var answer strings.Builder
	for _, ev := range events[1 : len(events)-1] {
		if ev.Type != rag.EventChunk {
			t.Fatalf("mid-stream event = %s, want chunk", ev.Type)
		}
		answer.WriteString(ev.Text)
	}
	if answer.String() != "mocked llm response" {
		t.Errorf("assembled answer = %q", answer.String())
	}

	if events[len(events)-1].Type != rag.EventDone {
		t.Errorf("last event = %s, want done", events[len(events)-1].Type)
	}
}

func TestAnswer_CitationPreviewKeepsRunesWhole(t *testing.T) {
	// 3-byte runes, so the 200-byte preview limit falls mid-rune
	index := &MockIndex{
		OnSearch: func(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error) {
			return []commonModels.SearchResult{
				{
					Id:       "hit-1",
					Content:  strings.Repeat("界", 100),
					Metadata: commonModels.ChunkMetadata{DocumentId: "doc-1", Pages: "[1]", Filename: "cjk.pdf"},
				},
			}, nil
		},
	}
	svc := newTestService(index, nil, nil, nil, nil)

	events := drain(t, svc.Answer(context.Background(), "q", 1, "conv-1"))

	if len(events) == 0 || events[0].Type != rag.EventCitations {
		t.Fatalf("expected a citations frame first, got %+v", events)
	}
	preview := events[0].Citations[0].Content
	if !strings.HasSuffix(preview, "...") {
		t.Fatalf("long content must be truncated, got %q", preview)
	}
	if !utf8.ValidString(preview) {
		t.Errorf("preview is not valid UTF-8: %q", preview)
	}
}

func TestAnswer_EmptyRetrievalIsTerminalError(t *testing.T) {
	index := &MockIndex{
		OnSearch: func(ctx context.Context, vector []float32, k int) ([]commonModels.SearchResult, error) {
			return nil, nil
		},
	}
	history := &MockHistoryStore{}
	svc := newTestService(index, nil, nil, nil, history)

	events := drain(t, svc.Answer(context.Background(), "anything", 5, "conv-1"))

	if len(events) != 1 {
		t.Fatalf("expected a single error frame, got %d events", len(events))
	}
	if events[0].Type != rag.EventError || events[0].Message != "No relevant context found." {
		t.Errorf("unexpected frame: %+v", events[0])
	}
	if len(history.SavedTurns) != 0 {
		t.Error("no history may be written when retrieval is empty")
	}
}

func TestAnswer_GenerationFailureAfterFragments(t *testing.T) {
	provider := &MockLLM{
		OnGenerateStream: func(ctx context.Context, prompt string, passages []string, system string, onFragment llm.FragmentFunc) error {
			if err := onFragment("partial "); err != nil {
				return err
			}
			return errors.New("provider down")
		},
	}
	history := &MockHistoryStore{}
	svc := newTestService(nil, provider, nil, nil, history)

	events := drain(t, svc.Answer(context.Background(), "q", 5, "conv-1"))

	last := events[len(events)-1]
	if last.Type != rag.EventError {
		t.Fatalf("last event = %s, want error", last.Type)
	}
	for _, ev := range events {
		if ev.Type == rag.EventDone {
			t.Error("done must not follow a generation failure")
		}
	}
	if len(history.SavedTurns) != 0 {
		t.Error("failed generations must not be persisted")
	}
}

func TestAnswer_PersistsTurnWithCitations(t *testing.T) {
	history := &MockHistoryStore{}
	svc := newTestService(nil, nil, nil, nil, history)

	drain(t, svc.Answer(context.Background(), "question", 5, "conv-9"))

	if len(history.SavedTurns) != 2 {
		t.Fatalf("expected user+bot turn, got %d messages", len(history.SavedTurns))
	}
	if history.SavedTurns[0].Role != "user" || history.SavedTurns[0].Content != "question" {
		t.Errorf("unexpected user message: %+v", history.SavedTurns[0])
	}
	bot := history.SavedTurns[1]
	if bot.Role != "bot" || bot.Content != "mocked llm response" {
		t.Errorf("unexpected bot message: %+v", bot)
	}
	if len(bot.Citations) != 1 {
		t.Errorf("bot message lost its citations: %+v", bot.Citations)
	}
}

func TestAnswer_TurnIsSavedBeforeDoneEvent(t *testing.T) {
	history := &MockHistoryStore{}
	svc := newTestService(nil, nil, nil, nil, history)

	// the events channel is unbuffered, so when the done event is
	// received the producer has already run everything before the send
	for ev := range svc.Answer(context.Background(), "question", 5, "conv-3") {
		if ev.Type == rag.EventDone && len(history.SavedTurns) != 2 {
			t.Fatalf("done emitted with %d saved messages, want 2", len(history.SavedTurns))
		}
	}
}

func TestAnswer_HistoryFailureDoesNotBreakStream(t *testing.T) {
	history := &MockHistoryStore{
		OnAppendTurn: func(ctx context.Context, conversationId string, user, bot commonModels.ConversationMessage) error {
			return errors.New("redis down")
		},
	}
	svc := newTestService(nil, nil, nil, nil, history)

	events := drain(t, svc.Answer(context.Background(), "q", 5, "conv-1"))

	sawDone := false
	for _, ev := range events {
		if ev.Type == rag.EventDone {
			sawDone = true
		}
		if ev.Type == rag.EventError {
			t.Error("history failure must not surface as an error frame")
		}
	}
	if !sawDone {
		t.Error("stream must still finish with done")
	}
}

func TestIngestDocument_Scenarios(t *testing.T) {
	writeDoc := func(t *testing.T) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "notes.txt")
		content := strings.Repeat("All employees accrue twenty days of leave per year. ", 30)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	baseJob := func(path string) jobModel.Job {
		return jobModel.Job{
			Id:          "job-1",
			DocumentId:  "doc-1",
			Filename:    "notes.txt",
			StoragePath: path,
			Status:      jobModel.JobStatusRunning,
		}
	}

	t.Run("Success marks document processed and indexes once", func(t *testing.T) {
		index := &MockIndex{}
		docs := &MockDocumentStore{}
		svc := newTestService(index, nil, nil, docs, nil)

		result := svc.IngestDocument(context.Background(), baseJob(writeDoc(t)))

		if result.Status != jobModel.JobStatusComplete {
			t.Fatalf("status = %s, want COMPLETE (error: %s)", result.Status, result.Error.Message)
		}
		if result.CurrentStep != jobModel.Complete {
			t.Errorf("step = %s, want Complete", result.CurrentStep)
		}
		if index.AddCalls != 1 {
			t.Errorf("Add called %d times, want 1", index.AddCalls)
		}
		if docs.Statuses["doc-1"] != commonModels.StatusProcessed {
			t.Errorf("document status = %s, want processed", docs.Statuses["doc-1"])
		}
	})

	t.Run("Missing file fails at extraction and indexes nothing", func(t *testing.T) {
		index := &MockIndex{}
		docs := &MockDocumentStore{}
		svc := newTestService(index, nil, nil, docs, nil)

		job := baseJob(filepath.Join(t.TempDir(), "gone.txt"))
		result := svc.IngestDocument(context.Background(), job)

		if result.Status != jobModel.JobStatusError {
			t.Fatalf("status = %s, want Error", result.Status)
		}
		if result.CurrentStep != jobModel.Extracting {
			t.Errorf("step = %s, want Extracting", result.CurrentStep)
		}
		if index.AddCalls != 0 {
			t.Errorf("Add called %d times, want 0", index.AddCalls)
		}
		if docs.Statuses["doc-1"] != commonModels.StatusError {
			t.Errorf("document status = %s, want error", docs.Statuses["doc-1"])
		}
	})

	t.Run("Embedding failure marks document errored", func(t *testing.T) {
		index := &MockIndex{}
		docs := &MockDocumentStore{}
		embedder := &MockEmbedder{
			OnEmbedBatch: func(ctx context.Context, texts []string) ([][]float32, error) {
				return nil, errors.New("backend offline")
			},
		}
		svc := newTestService(index, nil, embedder, docs, nil)

		result := svc.IngestDocument(context.Background(), baseJob(writeDoc(t)))

		if result.Status != jobModel.JobStatusError {
			t.Fatalf("status = %s, want Error", result.Status)
		}
		if result.CurrentStep != jobModel.Embedding {
			t.Errorf("step = %s, want Embedding", result.CurrentStep)
		}
		if index.AddCalls != 0 {
			t.Errorf("Add called %d times, want 0", index.AddCalls)
		}
	})
}

func TestDeleteDocument_RemovesVectors(t *testing.T) {
	var deleted string
	index := &MockIndex{
		OnDelete: func(ctx context.Context, documentId string) error {
			deleted = documentId
			return nil
		},
	}
	svc := newTestService(index, nil, nil, nil, nil)

	if err := svc.DeleteDocument(context.Background(), "doc-9"); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if deleted != "doc-9" {
		t.Errorf("deleted document = %q, want doc-9", deleted)
	}
}

func TestReindexAll_BuildsOneJobPerDocument(t *testing.T) {
	index := &MockIndex{}
	docs := &MockDocumentStore{
		OnList: func(ctx context.Context) ([]commonModels.Document, error) {
			return []commonModels.Document{
				{Id: "doc-1", Filename: "a.pdf", StoragePath: "/tmp/uploads/x_a.pdf", Status: commonModels.StatusProcessed},
				{Id: "doc-2", Filename: "b.txt", StoragePath: "/tmp/uploads/y_b.txt", Status: commonModels.StatusError},
			}, nil
		},
	}
	svc := newTestService(index, nil, nil, docs, nil)

	jobs, err := svc.ReindexAll(context.Background())
	if err != nil {
		t.Fatalf("ReindexAll failed: %v", err)
	}

	if index.ResetCalls != 1 {
		t.Errorf("Reset called %d times, want 1", index.ResetCalls)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for i, job := range jobs {
		if job.Status != jobModel.JobStatusQueued {
			t.Errorf("job %d status = %s, want QUEUED", i, job.Status)
		}
		if job.StoragePath == "" || job.DocumentId == "" {
			t.Errorf("job %d missing identity fields: %+v", i, job)
		}
	}
	if docs.Statuses["doc-1"] != commonModels.StatusPending || docs.Statuses["doc-2"] != commonModels.StatusPending {
		t.Errorf("documents not reset to pending: %+v", docs.Statuses)
	}
}
