package client

import (
	"errors"

	"github.com/huddle-io/huddle/internal/models"
)

// ErrDisabled is returned by QueryResult.Unwrap when the query never ran.
var ErrDisabled = errors.New("query is disabled")

type State int

const (
	// StateDisabled means the query had no input to run with, for example an empty id.
	StateDisabled State = iota
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// QueryResult is the outcome of a cached read.
type QueryResult[T any] struct {
	State State
	Data  T
	Err   error
	// Stale is set on a failed refetch when Data holds the previously cached value.
	Stale bool
}

func (r QueryResult[T]) Unwrap() (T, error) {
	switch r.State {
	case StateDisabled:
		return r.Data, ErrDisabled
	case StateError:
		return r.Data, r.Err
	}
	return r.Data, nil
}

func success[T any](data T) QueryResult[T] {
	return QueryResult[T]{State: StateSuccess, Data: data}
}

func failure[T any](err error) QueryResult[T] {
	return QueryResult[T]{State: StateError, Err: err}
}

// Page is one page of a list query.
type Page[T any] struct {
	Items []T
	Meta  models.Meta
}
