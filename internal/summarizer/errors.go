package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ConfigError reports a call rejected because of its configuration: unknown
// profile, unsupported provider, missing credentials or model.
type ConfigError struct {
	Profile string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Profile == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("profile %q: %v", e.Profile, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnavailableError reports a backend that could not be reached.
type UnavailableError struct {
	Profile string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Profile == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("profile %q: %v", e.Profile, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func classifyStatus(code int, err error) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return &ConfigError{Err: err}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &UnavailableError{Err: err}
	default:
		return err
	}
}

func classify(profile string, err error) error {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		if configErr.Profile == "" {
			configErr.Profile = profile
		}
		return configErr
	}

	var unavailableErr *UnavailableError
	if errors.As(err, &unavailableErr) {
		if unavailableErr.Profile == "" {
			unavailableErr.Profile = profile
		}
		return unavailableErr
	}

	if isUnreachable(err) {
		return &UnavailableError{Profile: profile, Err: err}
	}

	return fmt.Errorf("profile %q: %w", profile, err)
}

func isUnreachable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
