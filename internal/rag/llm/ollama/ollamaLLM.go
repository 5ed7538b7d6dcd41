package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/auramind/rag-api/internal/config"
	"github.com/auramind/rag-api/internal/customHttpClient"
	"github.com/auramind/rag-api/internal/rag/llm"
	"github.com/auramind/rag-api/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var ollamaClient *llmClient

type llmClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system"`
	Stream  bool           `json:"stream"`
	Options generateOption `json:"options"`
}

type generateOption struct {
	Temperature float32 `json:"temperature"`
}

// generateLine is one line of Ollama's newline-delimited JSON stream.
type generateLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// GetOllamaClient returns the process-wide Ollama provider.
func GetOllamaClient(baseURL, model string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_ollama")
		ollamaClient = &llmClient{
			httpClient: customHttpClient.GetPooledClient(),
			baseURL:    baseURL,
			model:      model,
		}
		logger.Info("Ollama client created", "model", model)
	})
	return ollamaClient
}

// Only for _test.go files.
func NewTestClient(httpClient *http.Client, baseURL, model string) llm.Provider {
	if logger == nil {
		logger = logger_i.NewLogger("llm_ollama")
	}
	return &llmClient{httpClient: httpClient, baseURL: baseURL, model: model}
}

func (c *llmClient) GenerateStream(ctx context.Context, prompt string, contextPassages []string, systemInstruction string, onFragment llm.FragmentFunc) error {
	fullPrompt := prompt
	if len(contextPassages) > 0 {
		fullPrompt = fmt.Sprintf("Context:\n%s\n\nQuestion: %s", strings.Join(contextPassages, "\n\n"), prompt)
	}

	payload, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  fullPrompt,
		System:  systemInstruction,
		Stream:  true,
		Options: generateOption{Temperature: config.ModelTemperature},
	})
	if err != nil {
		return fmt.Errorf("marshalling generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling ollama generate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama generate returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var parsed generateLine
		if err := json.Unmarshal(line, &parsed); err != nil {
			// Ollama occasionally interleaves non-JSON keepalive lines.
			logger.Debug("Skipping undecodable stream line", "error", err)
			continue
		}

		if parsed.Response != "" {
			if err := onFragment(parsed.Response); err != nil {
				return err
			}
		}
		if parsed.Done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading generate stream: %w", err)
	}
	return nil
}
