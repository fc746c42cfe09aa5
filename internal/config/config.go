package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"resumen/internal/domain"
	"resumen/internal/summarizer"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ConfigPath       string        `env:"RESUMEN_CONFIG"     envDefault:"resumen.yaml"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	HFToken          string        `env:"HF_TOKEN"`
	OllamaBaseURL    string        `env:"OLLAMA_BASE_URL"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT"      envDefault:"20s"`
	FetchMaxAttempts int           `env:"FETCH_MAX_ATTEMPTS" envDefault:"3"`
	SummaryTimeout   time.Duration `env:"SUMMARY_TIMEOUT"    envDefault:"3m"`
	DefaultProfile   string        `env:"DEFAULT_PROFILE"    envDefault:"ollama_local"`
	DefaultPrompt    string        `env:"DEFAULT_PROMPT"     envDefault:"Haz un resumen"`
	LogLevel         slog.Level    `env:"LOG_LEVEL"          envDefault:"INFO"`

	Sites    map[string]string             `env:"-"`
	Profiles map[string]summarizer.Profile `env:"-"`
}

// File is the YAML document at ConfigPath.
type File struct {
	Sites    map[string]string             `yaml:"sites"`
	Profiles map[string]summarizer.Profile `yaml:"profiles"`
}

// Load reads the environment, then the YAML file at RESUMEN_CONFIG when it
// exists. File profiles replace built-in profiles of the same name.
func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	file, err := readFile(cfg.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sites = file.Sites
	if cfg.Sites == nil {
		cfg.Sites = map[string]string{}
	}

	cfg.Profiles = DefaultProfiles()
	maps.Copy(cfg.Profiles, file.Profiles)

	for name, p := range cfg.Profiles {
		cfg.Profiles[name] = cfg.resolveProfile(p)
	}

	return cfg, nil
}

func readFile(path string) (File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return File{}, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read config file (path = %s): %w", path, err)
	}

	var file File
	if err = yaml.Unmarshal(raw, &file); err != nil {
		return File{}, fmt.Errorf("parse config file (path = %s): %w", path, err)
	}

	return file, nil
}

func DefaultProfiles() map[string]summarizer.Profile {
	return map[string]summarizer.Profile{
		domain.DefaultProfile: {
			Provider: summarizer.ProviderOllama,
			Model:    "llama3.1",
		},
		"openai": {
			Provider: summarizer.ProviderOpenAI,
		},
		"huggingface": {
			Provider: summarizer.ProviderHuggingFace,
		},
	}
}

func (c Config) resolveProfile(p summarizer.Profile) summarizer.Profile {
	if p.APIKey == "" && p.APIKeyEnv != "" {
		p.APIKey = strings.TrimSpace(os.Getenv(p.APIKeyEnv))
	}

	switch strings.ToLower(strings.TrimSpace(p.Provider)) {
	case summarizer.ProviderOpenAI:
		if p.APIKey == "" {
			p.APIKey = c.OpenAIAPIKey
		}
	case summarizer.ProviderHuggingFace:
		if p.APIKey == "" {
			p.APIKey = c.HFToken
		}
	case summarizer.ProviderOllama:
		if p.BaseURL == "" {
			p.BaseURL = c.OllamaBaseURL
		}
	}

	return p
}
