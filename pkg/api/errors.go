// pkg/api/errors.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Validation errors raised before any request is sent
var (
	// ErrUnsupportedFileType means the upload candidate is not CSV/Excel
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrFileTooLarge means the upload candidate exceeds the size cap
	ErrFileTooLarge = errors.New("file exceeds maximum upload size")
)

// APIError is a non-2xx backend response. Detail carries the backend's
// "detail" message when the body could be parsed.
type APIError struct {
	StatusCode int
	Detail     string
}

// Error returns the backend detail, or a generic message with the numeric
// status when no detail was available
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Error %d", e.StatusCode)
}

// decodeError converts a non-2xx response into an *APIError, reading a
// bounded amount of the body and tolerating unparseable payloads
func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Detail = payload.Detail
	}

	return apiErr
}
