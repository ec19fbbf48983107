package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotConfigured indicates no classifier backend is available
	ErrNotConfigured = errors.New("classifier not configured")
	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = errors.New("no choices in response")
)

// SchemaError indicates the classifier returned output that does not satisfy
// the intent contract: an unknown label, or partial structured fields.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return "classifier schema error: " + e.Detail
}

// APIError represents an error from the classifier provider API
type APIError struct {
	Message    string
	Type       string
	Code       string
	StatusCode int
	RetryAfter *time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d, type %s): %s", e.StatusCode, e.Type, e.Message)
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}

	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

// ExtractAPIError extracts API error details from an error.
// The OpenAI SDK often embeds JSON in the error message; pull out what we can.
func ExtractAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "429") {
		return nil
	}

	apiErr := &APIError{
		StatusCode: 429,
		Message:    errStr,
		Type:       "rate_limit_error",
	}

	if jsonStart := strings.Index(errStr, "{"); jsonStart != -1 {
		jsonStr := errStr[jsonStart:]
		if jsonEnd := strings.LastIndex(jsonStr, "}"); jsonEnd != -1 {
			jsonStr = jsonStr[:jsonEnd+1]
			var errorData struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}
			if json.Unmarshal([]byte(jsonStr), &errorData) == nil {
				apiErr.Message = errorData.Message
				apiErr.Type = errorData.Type
				apiErr.Code = errorData.Code
			}
		}
	}

	retryAfter := 60 * time.Second
	apiErr.RetryAfter = &retryAfter

	return apiErr
}
