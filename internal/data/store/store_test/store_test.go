package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/data/redisStore"
	"github.com/auramind/rag-api/internal/data/store"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redisStore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, redisStore.NewTestStore(client)
}

func TestRedisJobStore_Lifecycle(t *testing.T) {
	mr, internalStore := newTestStore(t)
	jobStore := store.TestJobStore(internalStore)

	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	jobID := "job_abc_123"

	testJob := jobModel.Job{
		Id:          jobID,
		DocumentId:  "doc-1",
		Filename:    "report.pdf",
		StoragePath: "/tmp/uploads/uuid_report.pdf",
		Status:      jobModel.JobStatusRunning,
		CurrentStep: jobModel.Embedding,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		err := jobStore.SaveJob(ctx, testJob)
		if err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}

		retrievedJob, found := jobStore.GetJob(ctx, jobID)
		if !found {
			t.Fatal("Job was saved but not found in Redis")
		}

		if retrievedJob.StoragePath != testJob.StoragePath {
			t.Errorf("Data mismatch! Got %s, want %s",
				retrievedJob.StoragePath, testJob.StoragePath)
		}
		if retrievedJob.CurrentStep != jobModel.Embedding {
			t.Errorf("CurrentStep mismatch!Received %s", retrievedJob.CurrentStep)
		}
	})

	t.Run("Get Non-Existent Job", func(t *testing.T) {
		_, found := jobStore.GetJob(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent key")
		}
	})

	t.Run("Delete Job", func(t *testing.T) {
		jobStore.DeleteJob(ctx, jobID)

		if mr.Exists(jobID) {
			t.Error("Job still exists in Redis after DeleteJob call")
		}
	})
}

func TestRedisDocumentStore_Lifecycle(t *testing.T) {
	_, internalStore := newTestStore(t)
	docStore := store.TestDocumentStore(internalStore)

	ctx := context.Background()
	doc := commonModels.Document{
		Id:          "doc-42",
		Filename:    "handbook.pdf",
		StoragePath: "/tmp/uploads/uuid_handbook.pdf",
		ContentType: commonModels.PDF,
		Status:      commonModels.StatusPending,
		UploadedAt:  time.Now().UTC(),
	}

	if err := docStore.SaveDocument(ctx, doc); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	t.Run("Get returns the saved record", func(t *testing.T) {
		got, found := docStore.GetDocument(ctx, doc.Id)
		if !found {
			t.Fatal("document not found after save")
		}
		if got.Filename != doc.Filename || got.Status != commonModels.StatusPending {
			t.Errorf("unexpected record: %+v", got)
		}
	})

	t.Run("SetStatus updates in place", func(t *testing.T) {
		if err := docStore.SetStatus(ctx, doc.Id, commonModels.StatusProcessed); err != nil {
			t.Fatalf("SetStatus failed: %v", err)
		}
		got, _ := docStore.GetDocument(ctx, doc.Id)
		if got.Status != commonModels.StatusProcessed {
			t.Errorf("status = %s, want processed", got.Status)
		}
		if got.StoragePath != doc.StoragePath {
			t.Error("SetStatus must not drop the storage path")
		}
	})

	t.Run("List includes the record", func(t *testing.T) {
		docs, err := docStore.ListDocuments(ctx)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(docs) != 1 || docs[0].Id != doc.Id {
			t.Errorf("unexpected listing: %+v", docs)
		}
	})

	t.Run("Delete removes record and index entry", func(t *testing.T) {
		if err := docStore.DeleteDocument(ctx, doc.Id); err != nil {
			t.Fatalf("DeleteDocument failed: %v", err)
		}
		if _, found := docStore.GetDocument(ctx, doc.Id); found {
			t.Error("document still readable after delete")
		}
		docs, _ := docStore.ListDocuments(ctx)
		if len(docs) != 0 {
			t.Errorf("listing not empty after delete: %+v", docs)
		}
	})
}

func TestRedisHistoryStore_AppendAndRead(t *testing.T) {
	_, internalStore := newTestStore(t)
	historyStore := store.TestHistoryStore(internalStore)

	ctx := context.Background()
	convId := "conv-7"

	user := commonModels.ConversationMessage{Role: "user", Content: "What is the leave policy?", CreatedAt: time.Now().UTC()}
	bot := commonModels.ConversationMessage{
		Role:    "bot",
		Content: "Employees accrue 20 days per year.",
		Citations: []commonModels.Citation{
			{Content: "20 days...", Pages: "[3]", DocumentName: "handbook.pdf", DocumentId: "doc-42"},
		},
		CreatedAt: time.Now().UTC(),
	}

	if err := historyStore.AppendTurn(ctx, convId, user, bot); err != nil {
		t.Fatalf("AppendTurn failed: %v", err)
	}

	history, err := historyStore.GetHistory(ctx, convId)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "bot" {
		t.Errorf("turn ordering broken: %s then %s", history[0].Role, history[1].Role)
	}
	if len(history[1].Citations) != 1 || history[1].Citations[0].DocumentName != "handbook.pdf" {
		t.Errorf("bot citations did not survive the roundtrip: %+v", history[1].Citations)
	}

	t.Run("Unknown conversation is empty, not an error", func(t *testing.T) {
		got, err := historyStore.GetHistory(ctx, "nobody-home")
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty history, got %d messages", len(got))
		}
	})
}
