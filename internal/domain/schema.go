package domain

// Keys of the mapping exchanged with the dispatch layer.
const (
	KeyURL         = "resumen_url"
	KeyName        = "resumen_name"
	KeyValidNames  = "resumen_valid_names"
	KeyPrompt      = "prompt"
	KeyProfile     = "profile"
	KeyFeedError   = "resumen_feed_error"
	KeyFeedURL     = "resumen_feed_url"
	KeyFeedFeed    = "resumen_feed_feed"
	KeyFeedEntries = "resumen_feed_entries"
	KeyAISummary   = "resumen_ai_summary"
)

// Schema renders the result as the mapping handed back to the caller.
// KeyFeedError and KeyName are always present; feed keys only once the feed
// was fetched; KeyAISummary only on success.
func (r SummaryResult) Schema() map[string]any {
	out := map[string]any{
		KeyFeedError: r.Error,
		KeyName:      r.Name,
	}

	if r.FeedURL != "" {
		out[KeyFeedURL] = r.FeedURL
		out[KeyFeedFeed] = r.FeedMetadata.Map()

		entries := make([]map[string]any, 0, len(r.FeedEntries))
		for _, e := range r.FeedEntries {
			entries = append(entries, e.Map())
		}
		out[KeyFeedEntries] = entries
	}

	if r.AISummary != "" {
		out[KeyAISummary] = r.AISummary
	}

	return out
}

// Map returns the non-empty metadata fields. A nil receiver yields an empty
// mapping.
func (m *FeedMetadata) Map() map[string]any {
	out := map[string]any{}
	if m == nil {
		return out
	}

	putNonEmpty(out, "title", m.Title)
	putNonEmpty(out, "description", m.Description)
	putNonEmpty(out, "link", m.Link)
	putNonEmpty(out, "feed_link", m.FeedLink)
	putNonEmpty(out, "language", m.Language)
	putNonEmpty(out, "updated", m.Updated)
	putNonEmpty(out, "generator", m.Generator)

	return out
}

func (e Entry) Map() map[string]any {
	out := map[string]any{}

	putNonEmpty(out, "title", e.Title)
	putNonEmpty(out, "summary", e.Summary)
	putNonEmpty(out, "description", e.Description)
	putNonEmpty(out, "link", e.Link)
	putNonEmpty(out, "published", e.Published)

	return out
}

func putNonEmpty(m map[string]any, key string, value string) {
	if value != "" {
		m[key] = value
	}
}
