package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/metrics"
	"github.com/auramind/rag-api/internal/rag/chunker"
	"github.com/auramind/rag-api/internal/rag/embedding"
	"github.com/auramind/rag-api/internal/rag/vectorDB"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessDocument runs one full ingestion cycle for the document named by the
// job: extract pages, chunk, embed, index. The returned job carries the final
// status and the step the pipeline stopped at. The uploaded file stays on
// disk afterwards so a later reindex can re-read it.
func ProcessDocument(ctx context.Context, job jobModel.Job, embedder embedding.Embedder, index vectorDB.Index) jobModel.Job {
	log := logger.With("traceId", job.TraceId, "documentId", job.DocumentId, "filename", job.Filename)

	log.Debug("Processing document", "path", job.StoragePath)

	docType := GetDocType(job.StoragePath)
	if docType == commonModels.ERR {
		return failJob(job, jobModel.Extracting, fmt.Sprintf("unsupported file type: %s", job.Filename))
	}

	job.CurrentStep = jobModel.Extracting
	pages, err := extractText(job.StoragePath, docType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return failJob(job, jobModel.Extracting, "Error extracting document content")
	}
	log.Debug("Extraction done", "pages", len(pages))

	job.CurrentStep = jobModel.Chunking
	chunks, err := chunker.Chunk(pages, config.ChunkSize(), config.ChunkOverlap())
	if err != nil {
		log.Error("Error chunking document", "error", err)
		return failJob(job, jobModel.Chunking, "Error chunking document")
	}
	log.Debug("Chunking done", "chunks", len(chunks))

	if len(chunks) == 0 {
		// empty documents index nothing but still complete
		return completeJob(job)
	}

	texts := make([]string, 0, len(chunks))
	metadatas := make([]commonModels.ChunkMetadata, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, fmt.Sprintf("Source: %s\nContent: %s", job.Filename, c.Content))
		metadatas = append(metadatas, commonModels.ChunkMetadata{
			DocumentId: job.DocumentId,
			Pages:      chunker.FormatPages(c.Pages),
			Filename:   job.Filename,
		})
	}

	job.CurrentStep = jobModel.Embedding
	embedStart := time.Now()
	vectors, err := embedder.EmbedBatch(ctx, texts)
	metrics.CaptureExecutionMetrics("embedding", time.Since(embedStart))
	if err != nil {
		log.Error("Error embedding chunks", "error", err)
		return failJob(job, jobModel.Embedding, "Error embedding document content")
	}

	job.CurrentStep = jobModel.Indexing
	indexStart := time.Now()
	err = index.Add(ctx, texts, metadatas, vectors)
	metrics.CaptureExecutionMetrics("vector_index", time.Since(indexStart))
	if err != nil {
		log.Error("Error indexing chunks", "error", err)
		return failJob(job, jobModel.Indexing, "Error indexing document content")
	}

	log.Info("Document ingested", "chunks", len(chunks))
	return completeJob(job)
}

func failJob(job jobModel.Job, step jobModel.InternalStatus, message string) jobModel.Job {
	job.Status = jobModel.JobStatusError
	job.CurrentStep = step
	job.Error = jobModel.JobError{Message: message}
	job.EndTime = time.Now().UTC()
	return job
}

func completeJob(job jobModel.Job) jobModel.Job {
	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	job.EndTime = time.Now().UTC()
	return job
}
