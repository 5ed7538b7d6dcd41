package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/auramind/rag-api/internal/adapter"
	"github.com/auramind/rag-api/internal/adapter/utils"
	"github.com/auramind/rag-api/internal/api"
	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/domain/commonModels"
	"github.com/auramind/rag-api/internal/domain/jobModel"
	"github.com/auramind/rag-api/internal/rag"
	"github.com/auramind/rag-api/internal/rag/ingest"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var logRH *logger_i.Logger

// QueryHandler godoc
// @Summary      Stream a citation-backed answer
// @Description  Retrieves the most relevant chunks for the query and streams the answer over SSE. The first frame carries the citations, then one frame per generated fragment, then the [DONE] sentinel.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        request  body  api.QueryRequest  true  "Query, optional conversation id and k"
// @Success      200  {string}  string  "SSE stream"
// @Failure      400  {object}  api.JobResponse  "Invalid request data"
// @Router       /chat/query [post]
func QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	var requestData api.QueryRequest
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the Query handler reader :", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || requestData.Query == "" {
		logRH.Warn("Bad Query Request: ", "error:", err)
		WriteErrorResponse(w, http.StatusBadRequest, "", "query is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := handlerInstance.ragService.Answer(r.Context(), requestData.Query, requestData.K, requestData.ConversationID)
	for ev := range events {
		writeStreamFrame(w, flusher, ev)
	}
}

func writeStreamFrame(w http.ResponseWriter, flusher http.Flusher, ev rag.StreamEvent) {
	switch ev.Type {
	case rag.EventCitations:
		writeSSEData(w, flusher, api.StreamCitationsFrame{Type: "citations", Citations: ev.Citations})
	case rag.EventChunk:
		writeSSEData(w, flusher, api.StreamChunkFrame{Type: "chunk", Text: ev.Text})
	case rag.EventError:
		writeSSEData(w, flusher, api.StreamErrorFrame{Error: ev.Message})
	case rag.EventDone:
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}
}

func writeSSEData(w http.ResponseWriter, flusher http.Flusher, frame interface{}) {
	data, err := json.Marshal(frame)
	if err != nil {
		logRH.Error("Error encoding stream frame", "err", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific ingestion job using its ID.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}

	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostUploadHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a PDF, DOCX or plaintext file via multipart/form-data, stores it, records the document as pending and queues an ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "The file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted"
// @Failure      400  {object}  api.JobResponse  "Missing file, unsupported type or file too large"
// @Failure      500  {object}  api.JobResponse  "Storage or write error"
// @Router       /documents/upload [post]
func PostUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	docType := ingest.GetDocType(fileMetadata.Filename)
	if docType == commonModels.ERR {
		WriteErrorResponse(w, http.StatusBadRequest, fileMetadata.Filename, "Unsupported file type")
		return
	}

	documentId := utils.GetNewUUID()
	storagePath := filepath.Join(targetDir, documentId+"_"+filepath.Base(fileMetadata.Filename))
	destinationFileWriter, err := os.Create(storagePath)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Write error")
		return
	}

	traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
	doc := commonModels.Document{
		Id:          documentId,
		Filename:    fileMetadata.Filename,
		StoragePath: storagePath,
		ContentType: docType,
		Status:      commonModels.StatusPending,
		UploadedAt:  time.Now().UTC(),
	}
	if err := handlerInstance.documents.SaveDocument(r.Context(), doc); err != nil {
		logRH.Error("Failed to save document record", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
		return
	}

	newJob := jobModel.Job{
		Id:          utils.GetNewUUID(),
		TraceId:     traceId,
		DocumentId:  documentId,
		Filename:    doc.Filename,
		StoragePath: storagePath,
		CreatedTime: time.Now().UTC(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
	}
	EnqueueIngestJob(newJob)

	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id, documentId))
}

// ListDocumentsHandler godoc
// @Summary      List known documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  api.DocumentListResponse
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	docs, err := handlerInstance.documents.ListDocuments(r.Context())
	if err != nil {
		logRH.Error("Failed to list documents", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentListResponse(docs))
}

// DeleteDocumentHandler godoc
// @Summary      Delete a document
// @Description  Removes the document's vectors, its record and its stored file.
// @Tags         Documents
// @Produce      json
// @Param        id   path  string  true  "Document ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  api.JobResponse  "Document not found"
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	doc, found := handlerInstance.documents.GetDocument(r.Context(), id)
	if !found {
		WriteErrorResponse(w, http.StatusNotFound, id, "Document not found")
		return
	}

	if err := handlerInstance.ragService.DeleteDocument(r.Context(), id); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Could not delete document vectors")
		return
	}
	if err := handlerInstance.documents.DeleteDocument(r.Context(), id); err != nil {
		logRH.Error("Failed to delete document record", "documentId", id, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}
	if err := os.Remove(doc.StoragePath); err != nil {
		// vectors and record are gone; a leftover file is only disk noise
		logRH.Warn("Failed to remove stored file", "path", doc.StoragePath, "err", err)
	}

	writeJsonResponse(w, http.StatusOK, map[string]string{"deleted": id})
}

// GetHistoryHandler godoc
// @Summary      Get conversation history
// @Tags         Chat
// @Produce      json
// @Param        id   path  string  true  "Conversation ID"
// @Success      200  {object}  api.HistoryResponse
// @Router       /history/{id} [get]
func GetHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	messages, err := handlerInstance.history.GetHistory(r.Context(), id)
	if err != nil {
		logRH.Error("Failed to load history", "conversationId", id, "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, id, "Storage error")
		return
	}
	writeJsonResponse(w, http.StatusOK, api.HistoryResponse{ConversationId: id, Messages: messages})
}

// ReindexHandler godoc
// @Summary      Rebuild the vector index
// @Description  Resets the index, flips every document back to pending and queues one ingestion job per document.
// @Tags         Admin
// @Produce      json
// @Success      202  {object}  api.ReindexResponse
// @Failure      500  {object}  api.JobResponse
// @Router       /admin/reindex [post]
func ReindexHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	jobs, err := handlerInstance.ragService.ReindexAll(r.Context())
	if err != nil {
		logRH.Error("Reindex failed", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "", "Reindex failed")
		return
	}

	jobIds := make([]string, 0, len(jobs))
	for _, j := range jobs {
		EnqueueIngestJob(j)
		jobIds = append(jobIds, j.Id)
	}

	writeJsonResponse(w, http.StatusAccepted, api.ReindexResponse{JobsQueued: len(jobIds), JobIds: jobIds})
}
