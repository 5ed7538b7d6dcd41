package openaiLLM

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/auramind/rag-api/internal/rag/llm"
	"github.com/auramind/rag-api/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger *logger_i.Logger
var openAIClient *llmClient
var once sync.Once

type llmClient struct {
	client openai.Client
	model  string
}

// GetOpenAIClient returns the shared OpenAI-compatible provider.
func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		openAIClient = &llmClient{
			client: openai.NewClient(option.WithAPIKey(apikey)),
			model:  modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})
	return openAIClient
}

func (c *llmClient) GenerateStream(ctx context.Context, prompt string, contextPassages []string, systemInstruction string, onFragment llm.FragmentFunc) error {
	userPrompt := prompt
	if len(contextPassages) > 0 {
		userPrompt = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(contextPassages, "\n\n"), prompt)
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemInstruction),
			openai.UserMessage(userPrompt),
		},
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		fragment := chunk.Choices[0].Delta.Content
		if fragment == "" {
			continue
		}
		if err := onFragment(fragment); err != nil {
			return err
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	return nil
}
