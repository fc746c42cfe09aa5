package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"resumen/internal/domain"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mmcdole/gofeed"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	DefaultTimeout     = 20 * time.Second
	DefaultMaxAttempts = 3

	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
)

type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	// InitialInterval overrides the first retry delay. Zero keeps the default.
	InitialInterval time.Duration
}

type Fetcher struct {
	libParser *gofeed.Parser
	opts      Options
	log       *slog.Logger
}

func NewFetcher(opts Options, log *slog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = retryInitialInterval
	}

	libParser := gofeed.NewParser()
	libParser.UserAgent = userAgent
	libParser.Client = &http.Client{Timeout: opts.Timeout}

	return &Fetcher{
		libParser: libParser,
		opts:      opts,
		log:       log,
	}
}

// Fetch downloads and parses the feed at feedURL. Failures are returned as
// *TransportError or *ParseError.
func (f *Fetcher) Fetch(
	ctx context.Context,
	feedURL string,
) (domain.FeedDocument, error) {
	feedURL = strings.TrimSpace(feedURL)
	if err := validateURL(feedURL); err != nil {
		return domain.FeedDocument{}, &ParseError{Err: err}
	}

	var attempt int

	operation := func() (*gofeed.Feed, error) {
		attempt++

		parsed, err := f.libParser.ParseURLWithContext(feedURL, ctx)
		if err == nil {
			return parsed, nil
		}

		classified := classifyError(err)

		var transportErr *TransportError
		if errors.As(classified, &transportErr) && transportErr.Temporary() && ctx.Err() == nil {
			return nil, classified
		}

		return nil, backoff.Permanent(classified)
	}

	notify := func(err error, delay time.Duration) {
		f.log.WarnContext(ctx, "Failed to fetch feed, retrying",
			"error", err,
			"feedURL", feedURL,
			"attempt", attempt,
			"delay", delay)
	}

	parsed, err := backoff.RetryNotifyWithData(operation, f.newBackOff(ctx), notify)
	if err != nil {
		f.log.ErrorContext(ctx, "Failed to fetch feed",
			"error", err,
			"feedURL", feedURL,
			"attempts", attempt)

		return domain.FeedDocument{}, err
	}

	doc := toDocument(parsed)

	f.log.DebugContext(ctx, "Feed is fetched",
		"feedURL", feedURL,
		"attempts", attempt,
		"entryCount", len(doc.Entries),
		"hasMetadata", doc.Metadata != nil)

	return doc, nil
}

func (f *Fetcher) newBackOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.opts.InitialInterval
	b.MaxInterval = retryMaxInterval
	b.MaxElapsedTime = 0

	//nolint:gosec // MaxAttempts is validated positive in NewFetcher
	retries := uint64(f.opts.MaxAttempts - 1)

	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("feed URL is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL has no host (URL = %s)", raw)
	}

	return nil
}
