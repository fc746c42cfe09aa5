package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"resumen/internal/config"
	"resumen/internal/domain"
	"resumen/internal/feed"
	"resumen/internal/resumen"
	"resumen/internal/site"
	"resumen/internal/summarizer"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

type app struct {
	cfg      config.Config
	registry *site.Registry
	manager  *summarizer.Manager
	pipeline *resumen.Pipeline
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootApp().RunContext(ctx, os.Args); err != nil {
		slog.Default().ErrorContext(ctx, "Command failed",
			"error", err)

		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "resumen",
		Usage: "Summarize RSS/Atom feeds with an AI backend",
		Description: `Fetches a configured feed, turns its latest entries into a prompt
and asks the selected profile's backend for a summary.

Sites and profiles are read from the YAML file at RESUMEN_CONFIG
(default resumen.yaml). Credentials and timeouts come from the environment:

OPENAI_API_KEY, HF_TOKEN, OLLAMA_BASE_URL, FETCH_TIMEOUT, SUMMARY_TIMEOUT`,
		Commands: []*cli.Command{
			summarizeCmd(),
			sitesCmd(),
			profilesCmd(),
		},
	}
}

func summarizeCmd() *cli.Command {
	return &cli.Command{
		Name:  "summarize",
		Usage: "Summarize the feed of a configured site",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "site",
				Aliases:  []string{"s"},
				Usage:    "configured site name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "feed URL overriding the configured one",
			},
			&cli.StringFlag{
				Name:  "prompt",
				Usage: "instruction prepended to the feed content (default from DEFAULT_PROMPT)",
			},
			&cli.StringFlag{
				Name:    "profile",
				Aliases: []string{"p"},
				Usage:   "summarization profile (default from DEFAULT_PROFILE)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the full result mapping as JSON",
			},
		},
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}

			name := c.String("site")
			if _, ok := a.registry.Resolve(&name); !ok {
				return cli.Exit(fmt.Sprintf("Invalid site name %q", name), 2)
			}

			feedURL := c.String("url")
			if feedURL == "" {
				feedURL, _ = a.registry.Lookup(name)
			}

			params := map[string]any{
				domain.KeyURL:        feedURL,
				domain.KeyName:       name,
				domain.KeyValidNames: a.registry.ValidNamesString(),
				domain.KeyPrompt:     firstNonEmpty(c.String("prompt"), a.cfg.DefaultPrompt),
				domain.KeyProfile:    firstNonEmpty(c.String("profile"), a.cfg.DefaultProfile),
			}

			out := a.pipeline.Main(c.Context, params)
			data, _ := out["data"].(map[string]any)

			if c.Bool("json") {
				return printJSON(out)
			}

			if msg, _ := data[domain.KeyFeedError].(string); msg != "" {
				return cli.Exit(msg, 1)
			}

			fmt.Println(data[domain.KeyAISummary])

			return nil
		},
	}
}

func sitesCmd() *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "List configured sites",
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, name := range a.registry.Names() {
				u, _ := a.registry.Lookup(name)
				fmt.Fprintf(w, "%s\t%s\n", name, u)
			}

			return w.Flush()
		},
	}
}

func profilesCmd() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List summarization profiles",
		Action: func(c *cli.Context) error {
			a, err := newApp(c.Context)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, name := range a.manager.Profiles() {
				status := "ok"
				if !a.manager.Usable(name) {
					status = "misconfigured"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, a.cfg.Profiles[name].Provider, status)
			}

			return w.Flush()
		},
	}
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	registry, err := site.NewRegistry(cfg.Sites, log)
	if err != nil {
		return nil, fmt.Errorf("create site registry: %w", err)
	}
	log.DebugContext(ctx, "Site registry is initialized",
		"configPath", cfg.ConfigPath,
		"siteCount", len(registry.Names()))

	manager := summarizer.NewManager(cfg.Profiles, cfg.SummaryTimeout, log)
	fetcher := feed.NewFetcher(feed.Options{
		Timeout:     cfg.FetchTimeout,
		MaxAttempts: cfg.FetchMaxAttempts,
	}, log)

	return &app{
		cfg:      cfg,
		registry: registry,
		manager:  manager,
		pipeline: resumen.New(fetcher, manager, log),
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
