package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/rag/llm"
	"github.com/auramind/rag-api/pkg/logger_i"
	"google.golang.org/genai"
)

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

type llmClient struct {
	client    *genai.Client
	modelName string
}

// GetGeminiClient returns the shared Gemini provider, nil when the client
// could not be constructed.
func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
		if err != nil {
			logger.Error("Error creating Gemini client", "error", err)
			return
		}
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func (c *llmClient) GenerateStream(ctx context.Context, prompt string, contextPassages []string, systemInstruction string, onFragment llm.FragmentFunc) error {
	userPrompt := prompt
	if len(contextPassages) > 0 {
		userPrompt = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(contextPassages, "\n\n"), prompt)
	}

	temperature := config.ModelTemperature
	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temperature,
	}

	for resp, err := range c.client.Models.GenerateContentStream(ctx, c.modelName, genai.Text(userPrompt), contentConfig) {
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		fragment := resp.Text()
		if fragment == "" {
			continue
		}
		if err := onFragment(fragment); err != nil {
			return err
		}
	}
	return nil
}
