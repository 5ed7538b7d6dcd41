package googleEmbedding

import (
	"context"
	"sync"
	"time"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/rag/embedding"
	"github.com/auramind/rag-api/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client
//requested from the API so Gemini vectors match the collection width
var dimension = int32(config.EmbeddingDimension())

type client struct {
	genAi *genai.Client
	model string
}

// GetGoogleEmbeddingClient returns the shared Gemini embedder, nil when the
// backend could not be reached.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("google_embedding")
		c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
		if err != nil {
			logger.Error("Error creating Google embedding client", "error", err)
			return
		}
		embeddingClient = &client{genAi: c, model: modelName}
		logger.Info("Google embedding client created", "model", modelName)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		logger.Error("Error getting embedding from Google", "error", err)
		return nil, embedding.ErrEmbeddingUnavailable
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	res, err := c.doCall(ctx, getContent(texts))
	if err != nil && doRetry(err) {
		logger.Debug("Rate limit hit, retrying in 5 seconds")
		time.Sleep(5 * time.Second)
		res, err = c.doCall(ctx, getContent(texts))
	}
	if err != nil || res == nil {
		logger.Error("Error getting batch embeddings from Google", "error", err)
		return nil, embedding.ErrEmbeddingUnavailable
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}

func getContent(chunks []string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contents = append(contents, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contents
}

func doRetry(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.ResourceExhausted
	}
	return false
}
