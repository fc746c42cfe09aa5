package domain

const (
	DefaultPrompt  = "Haz un resumen"
	DefaultProfile = "ollama_local"
)

type SummaryRequest struct {
	URL        string
	Name       string
	ValidNames map[string]struct{}
	Prompt     string
	Profile    string
}

// FeedMetadata holds feed-level fields. A nil *FeedMetadata means the feed
// carried none of them.
type FeedMetadata struct {
	Title       string
	Description string
	Link        string
	FeedLink    string
	Language    string
	Updated     string
	Generator   string
}

func (m *FeedMetadata) IsZero() bool {
	return m == nil || *m == FeedMetadata{}
}

type Entry struct {
	Title string
	// Summary is the short entry text. Description is the fallback used when
	// Summary is empty.
	Summary     string
	Description string
	Link        string
	Published   string
}

type FeedDocument struct {
	Metadata *FeedMetadata
	Entries  []Entry
}

type SummaryResult struct {
	Error        string
	Kind         ErrorKind
	FeedURL      string
	FeedMetadata *FeedMetadata
	FeedEntries  []Entry
	AISummary    string
	Name         string
}

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInput
	KindFetchTransport
	KindFetchParse
	KindEmptyFeed
	KindBackendConfig
	KindBackendUnavailable
	KindBackendGeneric
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInput:
		return "input"
	case KindFetchTransport:
		return "fetch_transport"
	case KindFetchParse:
		return "fetch_parse"
	case KindEmptyFeed:
		return "empty_feed"
	case KindBackendConfig:
		return "backend_config"
	case KindBackendUnavailable:
		return "backend_unavailable"
	case KindBackendGeneric:
		return "backend_generic"
	default:
		return "unknown"
	}
}
