// Package site keeps the configured set of summarizable sites.
package site

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/samber/lo"
	"mvdan.cc/xurls/v2"
)

// Registry maps site names to feed URLs. It is read-only after NewRegistry.
type Registry struct {
	urls  map[string]string
	names []string
}

func NewRegistry(sites map[string]string, log *slog.Logger) (*Registry, error) {
	httpURLRe, err := xurls.StrictMatchingScheme("https?://")
	if err != nil {
		return nil, fmt.Errorf("create regexp: %w", err)
	}

	urls := lo.PickBy(sites, func(name string, rawURL string) bool {
		name = strings.TrimSpace(name)
		rawURL = strings.TrimSpace(rawURL)

		switch {
		case name == "":
			log.Warn("Skipping site with empty name",
				"url", rawURL)

			return false
		case rawURL == "":
			return false
		case !isFeedURL(httpURLRe, rawURL):
			log.Warn("Skipping site with invalid URL",
				"name", name,
				"url", rawURL)

			return false
		}

		return true
	})

	trimmed := make(map[string]string, len(urls))
	for name, rawURL := range urls {
		trimmed[strings.TrimSpace(name)] = strings.TrimSpace(rawURL)
	}

	names := lo.Keys(trimmed)
	slices.Sort(names)

	return &Registry{urls: trimmed, names: names}, nil
}

func isFeedURL(re *regexp.Regexp, rawURL string) bool {
	return re.FindString(rawURL) == rawURL
}

func (r *Registry) Lookup(name string) (string, bool) {
	u, ok := r.urls[name]
	return u, ok
}

// Names returns site names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

func (r *Registry) ValidNames() map[string]struct{} {
	set := make(map[string]struct{}, len(r.names))
	for _, name := range r.names {
		set[name] = struct{}{}
	}
	return set
}

// ValidNamesString renders the names one per line, each line terminated by
// "\n".
func (r *Registry) ValidNamesString() string {
	var b strings.Builder
	for _, name := range r.names {
		b.WriteString(name)
		b.WriteString("\n")
	}
	return b.String()
}

// Resolve checks a requested site name. A nil name selects no site and is
// accepted; an unknown name is rejected. The returned name is empty unless it
// is a configured site.
func (r *Registry) Resolve(name *string) (string, bool) {
	if name == nil {
		return "", true
	}

	if _, ok := r.urls[*name]; !ok {
		return "", false
	}

	return *name, true
}
