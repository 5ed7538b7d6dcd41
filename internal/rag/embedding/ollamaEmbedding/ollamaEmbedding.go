package ollamaEmbedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/auramind/rag-api/internal/customHttpClient"
	"github.com/auramind/rag-api/internal/rag/embedding"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// GetOllamaEmbeddingClient returns the process-wide Ollama embedder. The first
// caller constructs it; concurrent first use cannot double-init.
func GetOllamaEmbeddingClient(baseURL, model string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("ollama_embedding")
		embeddingClient = &client{
			httpClient: customHttpClient.GetPooledClient(),
			baseURL:    baseURL,
			model:      model,
		}
		logger.Info("Ollama embedding client created", "model", model)
	})
	return embeddingClient
}

// Only for _test.go files.
func NewTestClient(httpClient *http.Client, baseURL, model string) embedding.Embedder {
	if logger == nil {
		logger = logger_i.NewLogger("ollama_embedding")
	}
	return &client{httpClient: httpClient, baseURL: baseURL, model: model}
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vector := c.doEmbedRequest(ctx, text)
	if len(vector) == 0 {
		return nil, embedding.ErrEmbeddingUnavailable
	}
	return vector, nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding chunk %d of %d: %w", i+1, len(texts), err)
		}
		vectors = append(vectors, vector)
	}
	return vectors, nil
}

// doEmbedRequest degrades to an empty vector on any backend failure; the
// Embed wrapper turns that into ErrEmbeddingUnavailable so pipeline stages
// fail loudly.
func (c *client) doEmbedRequest(ctx context.Context, text string) []float32 {
	payload, err := json.Marshal(embedRequest{Model: c.model, Prompt: text})
	if err != nil {
		logger.Error("Error marshalling embed request", "error", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/embeddings", bytes.NewReader(payload))
	if err != nil {
		logger.Error("Error building embed request", "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Error getting embeddings from Ollama", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("Ollama embeddings returned non-OK status", "status", resp.StatusCode)
		return nil
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		logger.Error("Error decoding embed response", "error", err)
		return nil
	}
	return parsed.Embedding
}
