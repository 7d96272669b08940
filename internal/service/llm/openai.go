package llm

import (
	"context"
	"fmt"

	"humdum-app/internal/config"
	"humdum-app/internal/logger"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
)

// OpenAIProvider implements Provider against any OpenAI-compatible hosted
// chat-completions API
type OpenAIProvider struct {
	client openai.Client
	config *config.LLMConfig
}

// NewOpenAIProvider creates a new hosted provider with config
func NewOpenAIProvider(llmConfig *config.LLMConfig) (*OpenAIProvider, error) {
	if llmConfig.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(llmConfig.OpenAIAPIKey),
		option.WithRequestTimeout(llmConfig.Timeout),
	}
	if llmConfig.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(llmConfig.OpenAIBaseURL))
	}

	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		config: llmConfig,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Reply sends the prompt with the persona system prompt and returns the
// assistant's reply
func (p *OpenAIProvider) Reply(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.config.SystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"model": p.config.Model, "error": err}).Warn("Inference call failed")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	return completion.Choices[0].Message.Content, nil
}
