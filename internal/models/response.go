package models

// Meta describes the page of a list response.
type Meta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Response is the body of every successful response.
type Response[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

func NewResponse[T any](data T) Response[T] {
	return Response[T]{Data: data}
}

func NewListResponse[T any](data []T, meta Meta) Response[[]T] {
	if data == nil {
		data = make([]T, 0)
	}
	return Response[[]T]{Data: data, Meta: &meta}
}
