package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit InternalStatus = "IngestInit"
	Extracting InternalStatus = "Extracting"
	Chunking   InternalStatus = "Chunking"
	Embedding  InternalStatus = "Embedding"
	Indexing   InternalStatus = "Indexing"
	Complete   InternalStatus = "Complete"
	Error      InternalStatus = "Error"
)

// Job is one ingestion attempt for one document. It carries the document's
// exact storage path so a reindex never has to guess which file backs a
// filename.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	DocumentId  string         `json:"document_id"`
	Filename    string         `json:"filename"`
	StoragePath string         `json:"storage_path"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitzero"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
