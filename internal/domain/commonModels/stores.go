package commonModels

import "context"

// DocumentStore owns the document records. The RAG core only mutates Status as
// an ingestion side effect; record creation and deletion happen at the edges.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, bool)
	ListDocuments(ctx context.Context) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status DocumentStatus) error
}

// HistoryStore appends conversation turns after a successful answer stream.
// A persist failure never alters the response already delivered.
type HistoryStore interface {
	AppendTurn(ctx context.Context, conversationId string, user, bot ConversationMessage) error
	GetHistory(ctx context.Context, conversationId string) ([]ConversationMessage, error)
}
