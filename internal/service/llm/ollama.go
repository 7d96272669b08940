package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"humdum-app/internal/config"
	"humdum-app/internal/logger"

	"github.com/sirupsen/logrus"
)

// OllamaProvider implements Provider using a self-hosted Ollama chat endpoint
type OllamaProvider struct {
	config *config.LLMConfig
	client *http.Client
}

// NewOllamaProvider creates a new Ollama provider with config
func NewOllamaProvider(llmConfig *config.LLMConfig) *OllamaProvider {
	return &OllamaProvider{
		config: llmConfig,
		client: &http.Client{Timeout: llmConfig.Timeout},
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatResponse struct {
	Message Message `json:"message"`
	Done    bool    `json:"done"`
}

func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Reply sends the prompt with the persona system prompt and returns the
// assistant's reply. Transport failures get one retry before the call is
// reported as unavailable.
func (p *OllamaProvider) Reply(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: p.config.Model,
		Messages: []Message{
			{Role: "system", Content: p.config.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			logger.Log.WithField("attempt", attempt+1).Debug("Retrying inference call")
		}

		reply, err := p.send(ctx, jsonData)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	logger.Log.WithFields(logrus.Fields{"model": p.config.Model, "error": lastErr}).Warn("Inference call failed")
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (p *OllamaProvider) send(ctx context.Context, jsonData []byte) (string, error) {
	url := p.config.OllamaBaseURL + "/api/chat"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("error decoding response: %w", err)
	}

	if chatResp.Message.Content == "" {
		return "", fmt.Errorf("empty reply from model")
	}

	return chatResp.Message.Content, nil
}
