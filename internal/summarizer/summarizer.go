package summarizer

import (
	"context"
)

const (
	ProviderOpenAI           = "openai"
	ProviderOllama           = "ollama"
	ProviderOpenAICompatible = "openai_compatible"
	ProviderHuggingFace      = "huggingface"
)

// Summarizer generates text for a prompt using the backend selected by
// profile.
type Summarizer interface {
	Prompt(ctx context.Context, profile string, text string) (string, error)
}

// Provider generates text with one fully configured backend.
type Provider interface {
	Generate(ctx context.Context, text string) (string, error)
}

// Profile configures one named backend.
type Profile struct {
	Provider        string   `yaml:"provider"`
	Model           string   `yaml:"model"`
	BaseURL         string   `yaml:"base_url"`
	APIKey          string   `yaml:"api_key"`
	APIKeyEnv       string   `yaml:"api_key_env"`
	SystemPrompt    string   `yaml:"system_prompt"`
	MaxOutputTokens int64    `yaml:"max_output_tokens"`
	Temperature     *float64 `yaml:"temperature"`
	ReasoningEffort string   `yaml:"reasoning_effort"`
}
