package feed

import (
	"resumen/internal/domain"
	"strings"

	"github.com/mmcdole/gofeed"
)

func toDocument(parsed *gofeed.Feed) domain.FeedDocument {
	if parsed == nil {
		return domain.FeedDocument{}
	}

	doc := domain.FeedDocument{
		Metadata: toMetadata(parsed),
		Entries:  make([]domain.Entry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}

		doc.Entries = append(doc.Entries, toEntry(item))
	}

	return doc
}

func toMetadata(parsed *gofeed.Feed) *domain.FeedMetadata {
	meta := &domain.FeedMetadata{
		Title:       strings.TrimSpace(parsed.Title),
		Description: strings.TrimSpace(parsed.Description),
		Link:        strings.TrimSpace(parsed.Link),
		FeedLink:    strings.TrimSpace(parsed.FeedLink),
		Language:    strings.TrimSpace(parsed.Language),
		Updated:     strings.TrimSpace(parsed.Updated),
		Generator:   strings.TrimSpace(parsed.Generator),
	}

	if meta.IsZero() {
		return nil
	}

	return meta
}

// toEntry maps RSS description / Atom summary to Summary and the full
// content body to Description, which is only used when Summary is empty.
func toEntry(item *gofeed.Item) domain.Entry {
	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = strings.TrimSpace(item.Updated)
	}

	link := strings.TrimSpace(item.Link)
	if link == "" && len(item.Links) > 0 {
		link = strings.TrimSpace(item.Links[0])
	}

	return domain.Entry{
		Title:       strings.TrimSpace(item.Title),
		Summary:     strings.TrimSpace(item.Description),
		Description: strings.TrimSpace(item.Content),
		Link:        link,
		Published:   published,
	}
}
