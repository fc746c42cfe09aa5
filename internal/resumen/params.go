package resumen

import (
	"context"
	"fmt"
	"resumen/internal/domain"
	"strings"
)

// RequestFromParams builds a request from the mapping supplied by the
// dispatch layer. Missing or empty prompt and profile take their defaults.
func RequestFromParams(params map[string]any) domain.SummaryRequest {
	req := domain.SummaryRequest{
		URL:        stringParam(params, domain.KeyURL),
		Name:       stringParam(params, domain.KeyName),
		ValidNames: ParseValidNames(params[domain.KeyValidNames]),
		Prompt:     stringParam(params, domain.KeyPrompt),
		Profile:    stringParam(params, domain.KeyProfile),
	}

	return withDefaults(req)
}

// ParseValidNames accepts a newline- or comma-delimited string, a string
// slice or a set.
func ParseValidNames(v any) map[string]struct{} {
	set := map[string]struct{}{}

	add := func(name string) {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}

	switch names := v.(type) {
	case string:
		for _, name := range strings.FieldsFunc(names, isNameDelimiter) {
			add(name)
		}
	case []string:
		for _, name := range names {
			add(name)
		}
	case []any:
		for _, name := range names {
			if s, ok := name.(string); ok {
				add(s)
			}
		}
	case map[string]struct{}:
		for name := range names {
			add(name)
		}
	case map[string]bool:
		for name, ok := range names {
			if ok {
				add(name)
			}
		}
	}

	return set
}

func isNameDelimiter(r rune) bool {
	return r == '\n' || r == '\r' || r == ','
}

func stringParam(params map[string]any, key string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return ""
	}

	if s, isString := v.(string); isString {
		return s
	}

	return fmt.Sprint(v)
}

// Main is the callback entry point for the dispatch layer: it reads params,
// runs the pipeline and wraps the result mapping under "data".
func (p *Pipeline) Main(ctx context.Context, params map[string]any) map[string]any {
	result := p.Summarize(ctx, RequestFromParams(params))

	return map[string]any{
		"data": result.Schema(),
	}
}
