package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/huddle-io/huddle/internal/models"
)

// ApiResponseError carries a ready made response out of a transaction.
type ApiResponseError struct {
	Status int
	Body   any
}

func (e ApiResponseError) Error() string {
	data, err := json.Marshal(e.Body)
	if err != nil {
		return "ApiResponseError"
	}
	return string(data)
}

func NewApiResponseError(status int, body any) *ApiResponseError {
	return &ApiResponseError{
		Status: status,
		Body:   body,
	}
}

func notAllowed(reason string) *ApiResponseError {
	return NewApiResponseError(http.StatusForbidden, models.NewNotAllowedError(reason))
}
