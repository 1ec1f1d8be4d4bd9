package models

// ApiError is the error member of a failed response body.
type ApiError struct {
	Message  string `json:"message" example:"something bad"`
	Field    string `json:"field,omitempty"`
	Reason   string `json:"reason,omitempty"`
	ID       string `json:"id,omitempty"`
	Resource string `json:"resource,omitempty"`
	TraceID  string `json:"trace_id,omitempty"`
}

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Data  any      `json:"data" swaggertype:"object"`
	Error ApiError `json:"error"`
}

func newErrorResponse(e ApiError) ErrorResponse {
	return ErrorResponse{Error: e}
}

// NewApiError returns a response body carrying the error message.
func NewApiError(err error) ErrorResponse {
	return newErrorResponse(ApiError{Message: err.Error()})
}

// NewInternalServerError returns a new response body for a HTTP 500
func NewInternalServerError(traceID string) ErrorResponse {
	return newErrorResponse(ApiError{
		Message: "internal server error",
		TraceID: traceID,
	})
}

func NewBadPayloadError() ErrorResponse {
	return newErrorResponse(ApiError{Message: "request json is invalid"})
}

func NewBadPathParameterError(param string) ErrorResponse {
	return newErrorResponse(ApiError{
		Field:   param,
		Message: "path parameter invalid",
	})
}

func NewBadQueryParameterError(param string) ErrorResponse {
	return newErrorResponse(ApiError{
		Field:   param,
		Message: "query parameter invalid",
	})
}

func NewFieldNotPresentError(field string) ErrorResponse {
	return newErrorResponse(ApiError{
		Field:   field,
		Message: "field not present",
	})
}

func NewInvalidField(field string) ErrorResponse {
	return newErrorResponse(ApiError{
		Field:   field,
		Message: "invalid data in field",
	})
}

func NewFieldValidationError(field string, reason string) ErrorResponse {
	return newErrorResponse(ApiError{
		Field:   field,
		Message: reason,
	})
}

// NewConflictsError is returned in the body of an HTTP 409
func NewConflictsError(id string) ErrorResponse {
	return newErrorResponse(ApiError{
		ID:      id,
		Message: "resource already exists",
	})
}

// NewConflictsReasonError is returned in the body of an HTTP 409 when the
// conflict is not a duplicate record.
func NewConflictsReasonError(id string, reason string) ErrorResponse {
	return newErrorResponse(ApiError{
		ID:      id,
		Message: "conflict",
		Reason:  reason,
	})
}

// NewNotFoundError is returned in the body of an HTTP 404
func NewNotFoundError(resource string) ErrorResponse {
	return newErrorResponse(ApiError{
		Resource: resource,
		Message:  "not found",
	})
}

// NewNotAllowedError is returned in the body of an HTTP 403
func NewNotAllowedError(reason string) ErrorResponse {
	return newErrorResponse(ApiError{
		Reason:  reason,
		Message: "operation not allowed",
	})
}

// NewGoneError is returned in the body of an HTTP 410
func NewGoneError(resource string) ErrorResponse {
	return newErrorResponse(ApiError{
		Resource: resource,
		Message:  "no longer available",
	})
}
