package resumen

import (
	"context"
	"errors"
	"log/slog"
	"resumen/internal/content"
	"resumen/internal/domain"
	"resumen/internal/feed"
	"resumen/internal/summarizer"
	"time"
)

const (
	errNoURL          = "No URL provided"
	errNoName         = "No site name provided"
	errInvalidName    = "Invalid site name"
	errEmptyFeed      = "No feed or entries found"
	prefixGenerate    = "Error generating summary: "
	prefixUnavailable = "AI backend not available: "
)

// FeedFetcher downloads and parses a feed. Unreachable feeds are reported as
// *feed.TransportError.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (domain.FeedDocument, error)
}

// Pipeline validates a summary request, fetches the feed and asks the
// summarizer for a summary. It holds no per-request state.
type Pipeline struct {
	fetcher    FeedFetcher
	summarizer summarizer.Summarizer
	log        *slog.Logger
}

func New(
	fetcher FeedFetcher,
	s summarizer.Summarizer,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		fetcher:    fetcher,
		summarizer: s,
		log:        log,
	}
}

// Summarize never fails: every error ends up in SummaryResult.Error with
// its Kind. Name is always copied from the request.
func (p *Pipeline) Summarize(
	ctx context.Context,
	req domain.SummaryRequest,
) domain.SummaryResult {
	start := time.Now()
	req = withDefaults(req)

	result := p.summarize(ctx, req)
	result.Name = req.Name

	if result.Error != "" {
		p.log.WarnContext(ctx, "Summary is not generated",
			"error", result.Error,
			"kind", result.Kind.String(),
			"name", req.Name,
			"url", req.URL,
			"elapsedSeconds", time.Since(start).Seconds())
	} else {
		p.log.InfoContext(ctx, "Summary is generated",
			"name", req.Name,
			"url", req.URL,
			"profile", req.Profile,
			"entryCount", len(result.FeedEntries),
			"summaryLen", len(result.AISummary),
			"elapsedSeconds", time.Since(start).Seconds())
	}

	return result
}

func (p *Pipeline) summarize(
	ctx context.Context,
	req domain.SummaryRequest,
) domain.SummaryResult {
	if msg, ok := validate(req); !ok {
		return failure(domain.KindInput, msg)
	}

	doc, err := p.fetcher.Fetch(ctx, req.URL)
	if err != nil {
		var transportErr *feed.TransportError
		if errors.As(err, &transportErr) {
			return failure(domain.KindFetchTransport, transportErr.Reason)
		}
		return failure(domain.KindFetchParse, err.Error())
	}

	if doc.Metadata.IsZero() && len(doc.Entries) == 0 {
		return failure(domain.KindEmptyFeed, errEmptyFeed)
	}

	entries := doc.Entries
	if entries == nil {
		entries = []domain.Entry{}
	}

	result := domain.SummaryResult{
		FeedURL:      req.URL,
		FeedMetadata: doc.Metadata,
		FeedEntries:  entries,
	}

	fullPrompt := req.Prompt + "\n\n" + content.BuildPrompt(doc, req.URL)

	summary, err := p.summarizer.Prompt(ctx, req.Profile, fullPrompt)
	if err != nil {
		result.Kind, result.Error = backendFailure(err)
		return result
	}

	result.AISummary = summary

	return result
}

func validate(req domain.SummaryRequest) (string, bool) {
	switch {
	case req.URL == "":
		return errNoURL, false
	case req.Name == "":
		return errNoName, false
	}

	if _, ok := req.ValidNames[req.Name]; !ok {
		return errInvalidName, false
	}

	return "", true
}

func backendFailure(err error) (domain.ErrorKind, string) {
	var configErr *summarizer.ConfigError
	if errors.As(err, &configErr) {
		return domain.KindBackendConfig, prefixGenerate + err.Error()
	}

	var unavailableErr *summarizer.UnavailableError
	if errors.As(err, &unavailableErr) {
		return domain.KindBackendUnavailable, prefixUnavailable + err.Error()
	}

	return domain.KindBackendGeneric, prefixGenerate + err.Error()
}

func failure(kind domain.ErrorKind, msg string) domain.SummaryResult {
	return domain.SummaryResult{Kind: kind, Error: msg}
}

func withDefaults(req domain.SummaryRequest) domain.SummaryRequest {
	if req.Prompt == "" {
		req.Prompt = domain.DefaultPrompt
	}
	if req.Profile == "" {
		req.Profile = domain.DefaultProfile
	}
	return req
}
