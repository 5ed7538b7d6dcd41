package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/auramind/rag-api/internal/config"
	jobmodel "github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/metrics"
)

// executeJob owns one ingestion job end to end. Each job gets its own context
// carrying the trace id, bounded by the ingest timeout, so one stuck document
// never wedges the pool.
func executeJob(currentJob jobmodel.Job) {
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, currentJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.IngestJobTimeout)
	defer cancel()

	log := logger.With("traceId", currentJob.TraceId, "jobId", currentJob.Id)
	log.Debug("Processing job", "documentId", currentJob.DocumentId)

	saveJobState(ctx, currentJob, jobmodel.JobStatusRunning)

	result := _ragService.IngestDocument(ctx, currentJob)

	if result.EndTime.IsZero() {
		result.EndTime = time.Now().UTC()
	}
	saveJobState(ctx, result, result.Status)
	log.Debug("Finished job", "status", result.Status, "step", result.CurrentStep)
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()
}

func saveJobState(ctx context.Context, currentJob jobmodel.Job, jobStatus jobmodel.JobStatus) {
	currentJob.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, currentJob); err != nil {
		logger.Error("Failed to update job status in store", "err", err)
	}
}
