package resumen_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"resumen/internal/domain"
	"resumen/internal/feed"
	"resumen/internal/resumen"
	"resumen/internal/summarizer"
	"strings"
	"sync"
	"testing"
)

const (
	siteURL  = "https://example.com/feed.xml"
	siteName = "example"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	doc   domain.FeedDocument
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (domain.FeedDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++

	return s.doc, s.err
}

func (s *stubFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

type stubSummarizer struct {
	mu          sync.Mutex
	calls       int
	lastProfile string
	lastText    string
	summary     string
	err         error
}

func (s *stubSummarizer) Prompt(_ context.Context, profile string, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.lastProfile = profile
	s.lastText = text

	return s.summary, s.err
}

func (s *stubSummarizer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls
}

func oneEntryFeed() domain.FeedDocument {
	return domain.FeedDocument{
		Metadata: &domain.FeedMetadata{Title: "Example", Description: "Example feed"},
		Entries: []domain.Entry{
			{Title: "Hello", Summary: "<p>World</p>", Link: "https://example.com/hello"},
		},
	}
}

func validRequest() domain.SummaryRequest {
	return domain.SummaryRequest{
		URL:        siteURL,
		Name:       siteName,
		ValidNames: map[string]struct{}{siteName: {}, "other": {}},
	}
}

func newPipeline(f *stubFetcher, s *stubSummarizer) *resumen.Pipeline {
	return resumen.New(f, s, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSummarizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.SummaryRequest)
		wantErr string
	}{
		{
			name:    "empty URL",
			mutate:  func(r *domain.SummaryRequest) { r.URL = "" },
			wantErr: "No URL provided",
		},
		{
			name:    "empty URL wins over empty name",
			mutate:  func(r *domain.SummaryRequest) { r.URL = ""; r.Name = "" },
			wantErr: "No URL provided",
		},
		{
			name:    "empty name",
			mutate:  func(r *domain.SummaryRequest) { r.Name = "" },
			wantErr: "No site name provided",
		},
		{
			name:    "unknown name",
			mutate:  func(r *domain.SummaryRequest) { r.Name = "unknown" },
			wantErr: "Invalid site name",
		},
		{
			name:    "no valid names",
			mutate:  func(r *domain.SummaryRequest) { r.ValidNames = nil },
			wantErr: "Invalid site name",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fetcher := &stubFetcher{doc: oneEntryFeed()}
			sum := &stubSummarizer{summary: "unused"}

			req := validRequest()
			test.mutate(&req)

			got := newPipeline(fetcher, sum).Summarize(context.Background(), req)

			if got.Error != test.wantErr {
				t.Fatalf("unexpected error: got %q want %q", got.Error, test.wantErr)
			}
			if got.Kind != domain.KindInput {
				t.Fatalf("unexpected kind: %v", got.Kind)
			}
			if got.Name != req.Name {
				t.Fatalf("expected name %q to be copied, got %q", req.Name, got.Name)
			}
			if got.FeedURL != "" || got.FeedMetadata != nil || got.FeedEntries != nil || got.AISummary != "" {
				t.Fatalf("expected no feed fields, got %+v", got)
			}
			if fetcher.callCount() != 0 {
				t.Fatalf("expected fetcher not to be called, got %d calls", fetcher.callCount())
			}
		})
	}
}

func TestSummarizeSuccess(t *testing.T) {
	fetcher := &stubFetcher{doc: oneEntryFeed()}
	sum := &stubSummarizer{summary: "Resumen generado"}

	got := newPipeline(fetcher, sum).Summarize(context.Background(), validRequest())

	if got.Error != "" {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if got.Kind != domain.KindNone {
		t.Fatalf("unexpected kind: %v", got.Kind)
	}
	if got.AISummary != "Resumen generado" {
		t.Fatalf("unexpected summary: %q", got.AISummary)
	}
	if got.FeedURL != siteURL || got.Name != siteName {
		t.Fatalf("unexpected url/name: %q %q", got.FeedURL, got.Name)
	}
	if got.FeedMetadata == nil || got.FeedMetadata.Title != "Example" {
		t.Fatalf("unexpected metadata: %+v", got.FeedMetadata)
	}
	if len(got.FeedEntries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got.FeedEntries))
	}

	if sum.lastProfile != domain.DefaultProfile {
		t.Fatalf("expected default profile, got %q", sum.lastProfile)
	}
	if !strings.HasPrefix(sum.lastText, "Haz un resumen\n\nURL del feed: "+siteURL) {
		t.Fatalf("unexpected prompt start: %q", sum.lastText)
	}
	if !strings.Contains(sum.lastText, "Resumen: World") {
		t.Fatalf("expected normalized entry in prompt: %q", sum.lastText)
	}
}

func TestSummarizeUsesRequestPromptAndProfile(t *testing.T) {
	sum := &stubSummarizer{summary: "ok"}
	req := validRequest()
	req.Prompt = "Resume en inglés"
	req.Profile = "openai"

	newPipeline(&stubFetcher{doc: oneEntryFeed()}, sum).Summarize(context.Background(), req)

	if sum.lastProfile != "openai" {
		t.Fatalf("unexpected profile: %q", sum.lastProfile)
	}
	if !strings.HasPrefix(sum.lastText, "Resume en inglés\n\n") {
		t.Fatalf("unexpected prompt: %q", sum.lastText)
	}
}

func TestSummarizeEntriesOnlyFeed(t *testing.T) {
	fetcher := &stubFetcher{doc: domain.FeedDocument{Entries: []domain.Entry{{Title: "Only"}}}}
	sum := &stubSummarizer{summary: "ok"}

	got := newPipeline(fetcher, sum).Summarize(context.Background(), validRequest())

	if got.Error != "" || got.AISummary != "ok" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.FeedMetadata != nil {
		t.Fatalf("expected nil metadata, got %+v", got.FeedMetadata)
	}
}

func TestSummarizeMetadataOnlyFeed(t *testing.T) {
	fetcher := &stubFetcher{doc: domain.FeedDocument{Metadata: &domain.FeedMetadata{Title: "Quiet"}}}
	sum := &stubSummarizer{summary: "ok"}

	got := newPipeline(fetcher, sum).Summarize(context.Background(), validRequest())

	if got.Error != "" {
		t.Fatalf("unexpected error: %q", got.Error)
	}
	if got.FeedEntries == nil || len(got.FeedEntries) != 0 {
		t.Fatalf("expected empty non-nil entries, got %#v", got.FeedEntries)
	}
}

func TestSummarizeEmptyFeed(t *testing.T) {
	fetcher := &stubFetcher{doc: domain.FeedDocument{Metadata: &domain.FeedMetadata{}}}
	sum := &stubSummarizer{}

	got := newPipeline(fetcher, sum).Summarize(context.Background(), validRequest())

	if got.Error != "No feed or entries found" || got.Kind != domain.KindEmptyFeed {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.FeedURL != "" {
		t.Fatalf("expected no feed URL, got %q", got.FeedURL)
	}
	if sum.callCount() != 0 {
		t.Fatalf("expected summarizer not to be called")
	}
}

func TestSummarizeFetchErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantErr  string
		wantKind domain.ErrorKind
	}{
		{
			name:     "transport",
			err:      &feed.TransportError{Reason: "Not Found", StatusCode: 404},
			wantErr:  "Not Found",
			wantKind: domain.KindFetchTransport,
		},
		{
			name:     "parse",
			err:      &feed.ParseError{Err: errors.New("failed to detect feed type")},
			wantErr:  "failed to detect feed type",
			wantKind: domain.KindFetchParse,
		},
		{
			name:     "other",
			err:      errors.New("boom"),
			wantErr:  "boom",
			wantKind: domain.KindFetchParse,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sum := &stubSummarizer{}
			got := newPipeline(&stubFetcher{err: test.err}, sum).Summarize(context.Background(), validRequest())

			if got.Error != test.wantErr || got.Kind != test.wantKind {
				t.Fatalf("unexpected result: error %q kind %v", got.Error, got.Kind)
			}
			if got.Name != siteName {
				t.Fatalf("expected name to be set, got %q", got.Name)
			}
			if got.FeedURL != "" || got.FeedEntries != nil {
				t.Fatalf("expected no feed fields, got %+v", got)
			}
			if sum.callCount() != 0 {
				t.Fatalf("expected summarizer not to be called")
			}
		})
	}
}

func TestSummarizeBackendErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantPrefix string
		wantKind   domain.ErrorKind
	}{
		{
			name:       "config",
			err:        &summarizer.ConfigError{Profile: "nope", Err: errors.New("profile not found")},
			wantPrefix: "Error generating summary: ",
			wantKind:   domain.KindBackendConfig,
		},
		{
			name:       "unavailable",
			err:        &summarizer.UnavailableError{Profile: "ollama_local", Err: errors.New("connection refused")},
			wantPrefix: "AI backend not available: ",
			wantKind:   domain.KindBackendUnavailable,
		},
		{
			name:       "generic",
			err:        errors.New("model exploded"),
			wantPrefix: "Error generating summary: ",
			wantKind:   domain.KindBackendGeneric,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sum := &stubSummarizer{summary: "ignored", err: test.err}
			got := newPipeline(&stubFetcher{doc: oneEntryFeed()}, sum).Summarize(context.Background(), validRequest())

			if !strings.HasPrefix(got.Error, test.wantPrefix) {
				t.Fatalf("unexpected error: %q", got.Error)
			}
			if !strings.HasSuffix(got.Error, test.err.Error()) {
				t.Fatalf("expected original message to be kept, got %q", got.Error)
			}
			if got.Kind != test.wantKind {
				t.Fatalf("unexpected kind: %v", got.Kind)
			}
			if got.AISummary != "" {
				t.Fatalf("expected empty summary, got %q", got.AISummary)
			}
			if got.FeedURL != siteURL {
				t.Fatalf("expected feed fields to stay populated, got %q", got.FeedURL)
			}
		})
	}
}
