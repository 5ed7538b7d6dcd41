package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/job"
	"github.com/auramind/rag-api/internal/metrics"
	"github.com/auramind/rag-api/internal/rag"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service    *job.Service
	ragService rag.Service
	documents  commonModels.DocumentStore
	history    commonModels.HistoryStore
}

func Init(jobService *job.Service, ragService rag.Service, documents commonModels.DocumentStore, history commonModels.HistoryStore) {
	once.Do(func() {
		handlerInstance = &JobHandler{
			service:    jobService,
			ragService: ragService,
			documents:  documents,
			history:    history,
		}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})
}

// EnqueueIngestJob pushes a queued job onto the worker channel and persists
// its initial state.
func EnqueueIngestJob(newJob jobModel.Job) {
	log := logJH.With("traceId", newJob.TraceId, "jobId", newJob.Id)
	log.Info("Enqueueing ingestion job", "documentId", newJob.DocumentId)
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob jobModel.Job) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, newJob.TraceId)
	if err := h.service.JobStore.SaveJob(ctxC, newJob); err != nil {
		logJH.Error("Failed to save queued job", "jobId", newJob.Id, "err", err)
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- newJob //blocking send to prevent the system from being overwhelmed
	logJH.Info("Queued new job")

	//ingestion involves batch embedding calls which can take a while, so every
	//ingest job also signals the dispatcher; idle workers retire on their own
	atomic.AddInt64(&h.service.RequestCount, 1)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
