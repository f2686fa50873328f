package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from the backend. Detail carries the
// server's message verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Detail, e.Status)
}

// Unauthorized reports whether the credential was rejected or expired
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

// Forbidden reports whether the server refused the operation for this
// account (unapproved account, wrong role).
func (e *APIError) Forbidden() bool {
	return e.Status == http.StatusForbidden
}

// AsAPIError unwraps an *APIError from an error chain
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// decodeError turns a non-2xx response into an *APIError. The backend wraps
// messages as {"detail": "..."}; anything else is passed through raw.
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Detail string `json:"detail"`
	}
	detail := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		detail = payload.Detail
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	return &APIError{Status: resp.StatusCode, Detail: detail}
}
