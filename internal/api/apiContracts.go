package api

import (
	"time"

	"github.com/auramind/rag-api/internal/domain/commonModels"
)

type JobResponse struct {
	Id         string            `json:"id" example:"job_cz109"`
	DocumentId string            `json:"document_id,omitempty"`
	Filename   string            `json:"filename,omitempty"`
	Result     Result            `json:"result"`
	Error      *JobOutgoingError `json:"error,omitempty"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time,omitzero"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status string `json:"status"`
	Step   string `json:"step,omitempty"`
}

type InitJobResponse struct {
	Id         string `json:"id"`
	DocumentId string `json:"document_id,omitempty"`
	StatusURL  string `json:"status_url"`
}

type DocumentResponse struct {
	Id          string    `json:"document_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Status      string    `json:"status"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Count     int                `json:"count"`
}

type ReindexResponse struct {
	JobsQueued int      `json:"jobs_queued"`
	JobIds     []string `json:"job_ids"`
}

type HistoryResponse struct {
	ConversationId string                             `json:"conversation_id"`
	Messages       []commonModels.ConversationMessage `json:"messages"`
}

// requests---------------------

type QueryRequest struct {
	Query          string `json:"query" validate:"required"`
	ConversationID string `json:"conversation_id,omitempty"`
	K              int    `json:"k,omitempty"`
}

// stream frames---------------------
// Every frame goes out as one SSE data line. The final sentinel is the bare
// string [DONE], not JSON.

type StreamCitationsFrame struct {
	Type      string                  `json:"type"`
	Citations []commonModels.Citation `json:"citations"`
}

type StreamChunkFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type StreamErrorFrame struct {
	Error string `json:"error"`
}
