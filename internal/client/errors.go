package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/huddle-io/huddle/internal/models"
)

// APIError is returned for every non 2xx response.
type APIError struct {
	Status int
	models.ApiError
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}
	var res models.ErrorResponse
	if err := json.Unmarshal(body, &res); err == nil && res.Error.Message != "" {
		e.ApiError = res.Error
		return e
	}
	e.Message = strings.TrimSpace(string(body))
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field: %s)", e.Field)
	}
	if e.Reason != "" {
		msg += fmt.Sprintf(": %s", e.Reason)
	}
	if e.TraceID != "" {
		msg += fmt.Sprintf(", trace id: %s", e.TraceID)
	}
	return msg
}

// StatusCode returns the HTTP status of err when it is an *APIError, otherwise 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// Simplify formats err for command line output.
func Simplify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("error: %w", err)
	}
	message := fmt.Sprintf("error: %s", apiErr.Message)
	switch {
	case apiErr.ID != "":
		message += fmt.Sprintf(": conflicting id: %s", apiErr.ID)
	case apiErr.Reason != "":
		message += fmt.Sprintf(", reason: %s", apiErr.Reason)
	case apiErr.Field != "":
		message += fmt.Sprintf(", field: %s", apiErr.Field)
	case apiErr.TraceID != "":
		message += fmt.Sprintf(": trace id: %s", apiErr.TraceID)
	}
	return fmt.Errorf("%s, status: %d", message, apiErr.Status)
}
