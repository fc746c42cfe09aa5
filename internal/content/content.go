// Package content turns a parsed feed into the text block sent to the
// summarization backend.
package content

import (
	"fmt"
	"regexp"
	"resumen/internal/domain"
	"strings"
)

const (
	MaxEntries        = 20
	MaxSummaryChars   = 500
	Ellipsis          = "..."
	untitled          = "Sin título"
	entriesSeparator  = "\n--- Entradas ---\n"
	omittedEntriesFmt = "\n... y %d entradas más."
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// BuildPrompt renders the feed header and up to MaxEntries entries, in
// document order.
func BuildPrompt(feed domain.FeedDocument, url string) string {
	parts := []string{fmt.Sprintf("URL del feed: %s\n", url)}

	if !feed.Metadata.IsZero() {
		parts = append(parts, "Título del feed: "+orDefault(feed.Metadata.Title, untitled))
		if feed.Metadata.Description != "" {
			parts = append(parts, "Descripción: "+feed.Metadata.Description)
		}
		parts = append(parts, entriesSeparator)
	}

	for i, entry := range feed.Entries[:min(MaxEntries, len(feed.Entries))] {
		parts = append(parts, entryLines(i+1, entry)...)
	}

	if omitted := len(feed.Entries) - MaxEntries; omitted > 0 {
		parts = append(parts, fmt.Sprintf(omittedEntriesFmt, omitted))
	}

	return strings.Join(parts, "\n")
}

func entryLines(ordinal int, entry domain.Entry) []string {
	lines := []string{
		fmt.Sprintf("\nEntrada %d:", ordinal),
		"Título: " + orDefault(entry.Title, untitled),
	}

	if summary := orDefault(entry.Summary, entry.Description); summary != "" {
		lines = append(lines, "Resumen: "+Truncate(StripTags(summary), MaxSummaryChars))
	}

	if entry.Link != "" {
		lines = append(lines, "Enlace: "+entry.Link)
	}

	return lines
}

// StripTags removes every `<...>` sequence. Nested or malformed markup is not
// handled; unmatched '<' is kept as text.
func StripTags(s string) string {
	return tagRe.ReplaceAllString(s, "")
}

// Truncate cuts s to maxChars characters and appends Ellipsis when anything
// was cut.
func Truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}

	return string(runes[:maxChars]) + Ellipsis
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
