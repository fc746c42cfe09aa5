package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
)

const (
	defaultOpenAIModel          = openai.ChatModelGPT5Mini2025_08_07
	baseMaxOutputTokens   int64 = 1024
	limitMaxOutputTokens  int64 = 4096
	openAIMaxRetries            = 1
)

// OpenAIProvider calls OpenAI's Responses API.
type OpenAIProvider struct {
	client          openai.Client
	model           string
	systemPrompt    string
	maxOutputTokens int64
	temperature     *float64
	reasoningEffort openai.ReasoningEffort
}

func NewOpenAIProvider(p Profile) (*OpenAIProvider, error) {
	apiKey := strings.TrimSpace(p.APIKey)
	if apiKey == "" {
		return nil, errors.New("API key is missing")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(openAIMaxRetries),
	}
	if baseURL := strings.TrimSpace(p.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	model := strings.TrimSpace(p.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	maxOutputTokens := p.MaxOutputTokens
	if maxOutputTokens <= 0 {
		maxOutputTokens = baseMaxOutputTokens
	}

	return &OpenAIProvider{
		client:          openai.NewClient(opts...),
		model:           model,
		systemPrompt:    strings.TrimSpace(p.SystemPrompt),
		maxOutputTokens: maxOutputTokens,
		temperature:     p.Temperature,
		reasoningEffort: openai.ReasoningEffort(strings.TrimSpace(p.ReasoningEffort)),
	}, nil
}

// Generate sends text as the user input. An output truncated by the token
// limit is requested again with a doubled limit, up to limitMaxOutputTokens.
func (p *OpenAIProvider) Generate(
	ctx context.Context,
	text string,
) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("input is empty")
	}

	maxOutputTokens := p.maxOutputTokens
	for {
		params := responses.ResponseNewParams{
			Model:           p.model,
			MaxOutputTokens: openai.Int(maxOutputTokens),
			Input: responses.ResponseNewParamsInputUnion{
				OfString: openai.String(text),
			},
		}
		if p.systemPrompt != "" {
			params.Instructions = openai.String(p.systemPrompt)
		}
		if p.temperature != nil {
			params.Temperature = openai.Float(*p.temperature)
		}
		if p.reasoningEffort != "" {
			params.Reasoning = responses.ReasoningParam{Effort: p.reasoningEffort}
		}

		resp, err := p.client.Responses.New(ctx, params)
		if err != nil {
			var apiErr *openai.Error
			if errors.As(err, &apiErr) {
				return "", classifyStatus(apiErr.StatusCode, fmt.Errorf("do request: %w", err))
			}
			return "", fmt.Errorf("do request: %w", err)
		}

		if resp.Status == responses.ResponseStatusIncomplete {
			if resp.IncompleteDetails.Reason == "max_output_tokens" && maxOutputTokens < limitMaxOutputTokens {
				maxOutputTokens = min(maxOutputTokens*2, limitMaxOutputTokens)
				continue
			}
			return "", fmt.Errorf(
				"response is incomplete (reason = %s, maxOutputTokens = %d)",
				resp.IncompleteDetails.Reason,
				maxOutputTokens,
			)
		}

		summary := strings.TrimSpace(resp.OutputText())
		if summary == "" {
			return "", fmt.Errorf("output text is missing (status = %s)", resp.Status)
		}
		return summary, nil
	}
}
