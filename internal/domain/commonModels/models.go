package commonModels

import "time"

type DocumentStatus string

// Status is monotonic within one ingestion attempt: pending goes to processed
// or error, never back. A reindex re-enters pending before the next cycle.
const (
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
	StatusError     DocumentStatus = "error"
)

type Document struct {
	Id          string         `json:"document_id"`
	Filename    string         `json:"filename"`
	StoragePath string         `json:"storage_path"`
	ContentType DocType        `json:"content_type"`
	Status      DocumentStatus `json:"status"`
	UploadedAt  time.Time      `json:"uploaded_at"`
	IngestedAt  time.Time      `json:"ingested_at,omitzero"`
}

// PageText is one physical page as the extractor produced it.
type PageText struct {
	Number  int
	Content string
}

// Chunk is a window of the concatenated document text. Pages holds every page
// whose character span intersects the window's span, ascending.
type Chunk struct {
	Content string
	Pages   []int
}

type ChunkMetadata struct {
	DocumentId string
	Pages      string
	Filename   string
}

type SearchResult struct {
	Id       string
	Content  string
	Metadata ChunkMetadata
	Distance float32
}

type Citation struct {
	Content      string `json:"content"`
	Pages        string `json:"pages"`
	DocumentName string `json:"document_name"`
	DocumentId   string `json:"document_id"`
}

type ConversationMessage struct {
	Role      string     `json:"role"` //user or bot
	Content   string     `json:"content"`
	Citations []Citation `json:"citations,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type DocType string

var (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ERR  DocType = "ERROR"
)
