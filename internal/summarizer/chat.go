package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOllamaBaseURL      = "http://localhost:11434/v1"
	DefaultHuggingFaceBaseURL = "https://router.huggingface.co/v1"

	defaultOllamaModel      = "llama3.1"
	defaultHuggingFaceModel = "meta-llama/Llama-3.1-8B-Instruct"

	// Ollama ignores the token but go-openai always sends an Authorization header.
	ollamaPlaceholderAPIKey = "ollama"

	chatClientTimeout = 5 * time.Minute
)

// ChatProvider calls an OpenAI-compatible chat completions endpoint
// (Ollama, Hugging Face router, vLLM and similar).
type ChatProvider struct {
	client       *goopenai.Client
	model        string
	systemPrompt string
	maxTokens    int
	temperature  *float64
}

func NewChatProvider(p Profile) (*ChatProvider, error) {
	kind := strings.ToLower(strings.TrimSpace(p.Provider))
	apiKey := strings.TrimSpace(p.APIKey)
	baseURL := strings.TrimSpace(p.BaseURL)
	model := strings.TrimSpace(p.Model)

	switch kind {
	case ProviderOllama:
		if baseURL == "" {
			baseURL = DefaultOllamaBaseURL
		}
		if apiKey == "" {
			apiKey = ollamaPlaceholderAPIKey
		}
		if model == "" {
			model = defaultOllamaModel
		}
	case ProviderHuggingFace:
		if baseURL == "" {
			baseURL = DefaultHuggingFaceBaseURL
		}
		if model == "" {
			model = defaultHuggingFaceModel
		}
		if apiKey == "" {
			return nil, errors.New("API key is missing")
		}
	case ProviderOpenAICompatible:
		if baseURL == "" {
			return nil, errors.New("base URL is missing")
		}
		if model == "" {
			return nil, errors.New("model is missing")
		}
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", p.Provider)
	}

	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{Timeout: chatClientTimeout}

	return &ChatProvider{
		client:       goopenai.NewClientWithConfig(cfg),
		model:        model,
		systemPrompt: strings.TrimSpace(p.SystemPrompt),
		maxTokens:    int(p.MaxOutputTokens),
		temperature:  p.Temperature,
	}, nil
}

func (p *ChatProvider) Generate(
	ctx context.Context,
	text string,
) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("input is empty")
	}

	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if p.systemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: p.systemPrompt,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: text,
	})

	req := goopenai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: p.maxTokens,
	}
	if p.temperature != nil {
		req.Temperature = float32(*p.temperature)
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classifyChatError(fmt.Errorf("create chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", fmt.Errorf("output text is missing (finishReason = %s)", resp.Choices[0].FinishReason)
	}

	return summary, nil
}

func classifyChatError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}

	return err
}
