package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"movie-discovery-service/internal/model"
	"movie-discovery-service/internal/paging"
	"movie-discovery-service/pkg/httpclient"
)

// Display texts used when the API gives no message of its own
const (
	APIErrorText = "API error"
)

var (
	// ErrNotConfigured is returned when no bearer token is available
	ErrNotConfigured = errors.New("TMDB API token not configured")
	// ErrEmptyQuery is returned by Search for a blank query
	ErrEmptyQuery = errors.New("search query is empty")
)

// APIError is a non-2xx TMDB response
type APIError struct {
	Path          string
	StatusCode    int
	StatusMessage string
}

func (e *APIError) Error() string {
	if e.StatusMessage != "" {
		return fmt.Sprintf("tmdb %s: status %d: %s", e.Path, e.StatusCode, e.StatusMessage)
	}
	return fmt.Sprintf("tmdb %s: status %d", e.Path, e.StatusCode)
}

// wrapFetchError turns transport status errors into APIError, decoding
// TMDB's status_message from the body when present
func wrapFetchError(path string, err error) error {
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		return fmt.Errorf("TMDB request %s failed: %w", path, err)
	}

	apiErr := &APIError{Path: path, StatusCode: statusErr.Code}
	var body model.ErrorBody
	if json.Unmarshal(statusErr.Body, &body) == nil {
		apiErr.StatusMessage = body.StatusMessage
	}
	return apiErr
}

// ErrorText converts an error to the text shown to users: the API's own
// status message when it sent one, a generic API error for other HTTP
// failures, and a generic fallback for everything else.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusMessage != "" {
			return apiErr.StatusMessage
		}
		return APIErrorText
	}
	return paging.GenericErrorText
}

// StatusCode returns the upstream HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
