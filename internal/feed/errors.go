package feed

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"
)

// TransportError reports that the feed could not be reached or the server
// answered with a non-2xx status.
type TransportError struct {
	// Reason is a human-readable cause, e.g. "Not Found".
	Reason string
	// StatusCode is zero for network-level failures.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return "transport: " + strconv.Itoa(e.StatusCode) + " " + e.Reason
	}
	return "transport: " + e.Reason
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Temporary reports whether retrying the same request may succeed.
func (e *TransportError) Temporary() bool {
	if e.StatusCode == 0 {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// ParseError reports a reachable feed whose body could not be parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func classifyError(err error) error {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return &TransportError{
			Reason:     statusReason(httpErr.StatusCode, httpErr.Status),
			StatusCode: httpErr.StatusCode,
			Err:        err,
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{
			Reason: urlErr.Err.Error(),
			Err:    err,
		}
	}

	return &ParseError{Err: err}
}

func statusReason(code int, status string) string {
	if text := http.StatusText(code); text != "" {
		return text
	}

	if _, reason, ok := strings.Cut(strings.TrimSpace(status), " "); ok && reason != "" {
		return reason
	}

	return strings.TrimSpace(status)
}
