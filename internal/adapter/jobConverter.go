package adapter

import (
	"fmt"
	"time"

	"github.com/auramind/rag-api/internal/api"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
)

func ToInitJobResponse(jobId, documentId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:         jobId,
		DocumentId: documentId,
		StatusURL:  fmt.Sprintf("status/%s", jobId),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:         job.Id,
		DocumentId: job.DocumentId,
		Filename:   job.Filename,
		StartTime:  job.CreatedTime,
		EndTime:    job.EndTime,
		Error:      errorPtr,
		Result: api.Result{
			Status: string(job.Status),
			Step:   string(job.CurrentStep),
		},
	}
}

func ToDocumentResponse(doc commonModels.Document) api.DocumentResponse {
	return api.DocumentResponse{
		Id:          doc.Id,
		Filename:    doc.Filename,
		ContentType: string(doc.ContentType),
		Status:      string(doc.Status),
		UploadedAt:  doc.UploadedAt,
	}
}

func ToDocumentListResponse(docs []commonModels.Document) api.DocumentListResponse {
	out := make([]api.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, ToDocumentResponse(doc))
	}
	return api.DocumentListResponse{Documents: out, Count: len(out)}
}

func BadRequest(id string, errMessage string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(jobModel.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: errMessage,
			Retry:   false,
		},
	}
}
