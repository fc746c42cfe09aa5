package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
)

const DefaultTimeout = 3 * time.Minute

// Manager resolves profile names to providers. It is built once and is safe
// for concurrent use.
type Manager struct {
	providers map[string]Provider
	// invalid keeps the construction error of misconfigured profiles so it
	// surfaces on use instead of at startup.
	invalid map[string]error
	timeout time.Duration
	log     *slog.Logger
}

func NewManager(
	profiles map[string]Profile,
	timeout time.Duration,
	log *slog.Logger,
) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	m := &Manager{
		providers: make(map[string]Provider, len(profiles)),
		invalid:   make(map[string]error),
		timeout:   timeout,
		log:       log,
	}

	for name, p := range profiles {
		provider, err := newProvider(p)
		if err != nil {
			m.invalid[name] = &ConfigError{Profile: name, Err: err}
			log.Warn("Profile is misconfigured",
				"error", err,
				"profile", name,
				"provider", p.Provider)

			continue
		}

		m.providers[name] = provider
	}

	return m
}

func newProvider(p Profile) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(p.Provider)) {
	case ProviderOpenAI:
		return NewOpenAIProvider(p)
	case ProviderOllama, ProviderHuggingFace, ProviderOpenAICompatible:
		return NewChatProvider(p)
	case "":
		return nil, errors.New("provider is missing")
	default:
		return nil, fmt.Errorf("unsupported provider %q", p.Provider)
	}
}

// Prompt implements Summarizer.
func (m *Manager) Prompt(
	ctx context.Context,
	profile string,
	text string,
) (string, error) {
	provider, ok := m.providers[profile]
	if !ok {
		if err, invalid := m.invalid[profile]; invalid {
			return "", err
		}
		return "", &ConfigError{Profile: profile, Err: errors.New("profile not found")}
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()

	out, err := provider.Generate(ctx, text)
	if err != nil {
		err = classify(profile, err)
		m.log.ErrorContext(ctx, "Failed to generate text",
			"error", err,
			"profile", profile,
			"textLen", len(text),
			"elapsedSeconds", time.Since(start).Seconds())

		return "", err
	}

	m.log.InfoContext(ctx, "Text is generated",
		"profile", profile,
		"textLen", len(text),
		"outputLen", len(out),
		"elapsedSeconds", time.Since(start).Seconds())

	return out, nil
}

// Profiles returns the names of all configured profiles, usable or not.
func (m *Manager) Profiles() []string {
	names := append(lo.Keys(m.providers), lo.Keys(m.invalid)...)
	slices.Sort(names)

	return names
}

// Usable reports whether profile exists and was configured correctly.
func (m *Manager) Usable(profile string) bool {
	_, ok := m.providers[profile]
	return ok
}
