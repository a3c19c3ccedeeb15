package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned for any response outside the accepted status range.
type APIError struct {
	StatusCode int
	// Reason is the HTTP reason phrase, e.g. "Unprocessable Entity".
	Reason string
	// Message is the "message" field of a JSON error body, if any.
	Message string
	// Body is the raw response body.
	Body string
}

func newAPIError(resp *http.Response, body []byte) *APIError {
	reason := http.StatusText(resp.StatusCode)
	if _, phrase, found := strings.Cut(resp.Status, " "); found && phrase != "" {
		reason = phrase
	}

	e := &APIError{
		StatusCode: resp.StatusCode,
		Reason:     reason,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Message
	}
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		return fmt.Sprintf("error (%d %s)", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("error (%d %s): %s", e.StatusCode, e.Reason, detail)
}

// IsAuthError returns true if the API key was missing or rejected.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsNotFound returns true if the resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsValidationError returns true if the appliance rejected the payload.
func (e *APIError) IsValidationError() bool {
	return e.StatusCode == http.StatusUnprocessableEntity
}

// IsNotFound reports whether err wraps a 404 APIError.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsNotFound()
}

// IsAuthError reports whether err wraps a 401 or 403 APIError.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.IsAuthError()
}
