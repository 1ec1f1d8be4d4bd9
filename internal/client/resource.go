package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/huddle-io/huddle/internal/models"
	"github.com/huddle-io/huddle/internal/querycache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/huddle-io/huddle/internal/client")
}

// Query reads one REST resource through the query cache.
type Query[T any, P any] struct {
	client *Client
	name   string
	path   string
}

func NewQuery[T any, P any](c *Client, name string) *Query[T, P] {
	return &Query[T, P]{
		client: c,
		name:   name,
		path:   "/api/" + name,
	}
}

func (q *Query[T, P]) Name() string {
	return q.name
}

// List returns one page of the resource filtered by params.
func (q *Query[T, P]) List(ctx context.Context, params P) QueryResult[Page[T]] {
	ctx, span := tracer.Start(ctx, "List", trace.WithAttributes(
		attribute.String("resource", q.name),
	))
	defer span.End()

	encoded, err := EncodeParams(params)
	if err != nil {
		return failure[Page[T]](fmt.Errorf("invalid %s list params: %w", q.name, err))
	}
	key := querycache.ListKey(q.name, encoded)
	return fetch[Page[T]](ctx, q.client, key, func(ctx context.Context) (querycache.Entry, error) {
		return q.client.do(ctx, http.MethodGet, q.path, encoded, nil)
	}, decodePage[T])
}

// Get returns a single entity. An empty id is not an error: no request is
// made and the result is StateDisabled.
func (q *Query[T, P]) Get(ctx context.Context, id string) QueryResult[T] {
	if id == "" {
		return QueryResult[T]{State: StateDisabled}
	}
	ctx, span := tracer.Start(ctx, "Get", trace.WithAttributes(
		attribute.String("resource", q.name),
		attribute.String("id", id),
	))
	defer span.End()

	return fetch[T](ctx, q.client, querycache.EntityKey(q.name, id), func(ctx context.Context) (querycache.Entry, error) {
		return q.client.do(ctx, http.MethodGet, q.path+"/"+url.PathEscape(id), "", nil)
	}, decodeData[T])
}

// Resource adds create, update and delete to a Query. Every mutation is
// exactly one REST call followed by cache maintenance.
type Resource[T any, A any, U any, P any] struct {
	*Query[T, P]
}

func NewResource[T any, A any, U any, P any](c *Client, name string) *Resource[T, A, U, P] {
	return &Resource[T, A, U, P]{
		Query: NewQuery[T, P](c, name),
	}
}

// Create posts body. On success the resource lists and the queries listed
// for it in Invalidations become stale.
func (r *Resource[T, A, U, P]) Create(ctx context.Context, body A) (T, error) {
	ctx, span := tracer.Start(ctx, "Create", trace.WithAttributes(
		attribute.String("resource", r.name),
	))
	defer span.End()

	var result T
	entry, err := r.client.do(ctx, http.MethodPost, r.path, "", body)
	if err != nil {
		return result, err
	}
	if result, err = decodeData[T](entry); err != nil {
		return result, err
	}
	r.invalidate(ctx)
	return result, nil
}

// Update replaces the entity. On success its cache entry holds exactly the
// server's response and the resource lists become stale.
func (r *Resource[T, A, U, P]) Update(ctx context.Context, id string, body U) (T, error) {
	ctx, span := tracer.Start(ctx, "Update", trace.WithAttributes(
		attribute.String("resource", r.name),
		attribute.String("id", id),
	))
	defer span.End()

	var result T
	entry, err := r.client.do(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), "", body)
	if err != nil {
		return result, err
	}
	if result, err = decodeData[T](entry); err != nil {
		return result, err
	}
	if err := r.client.cache.Set(ctx, querycache.EntityKey(r.name, id), entry); err != nil {
		r.client.logger.Warnw("failed to store updated entity", "resource", r.name, "id", id, "error", err)
	}
	r.invalidate(ctx)
	return result, nil
}

// Delete removes the entity. On success its cache entry is dropped and the
// resource lists become stale.
func (r *Resource[T, A, U, P]) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Delete", trace.WithAttributes(
		attribute.String("resource", r.name),
		attribute.String("id", id),
	))
	defer span.End()

	if _, err := r.client.do(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), "", nil); err != nil {
		return err
	}
	if err := r.client.cache.Remove(ctx, querycache.EntityKey(r.name, id)); err != nil {
		r.client.logger.Warnw("failed to remove deleted entity", "resource", r.name, "id", id, "error", err)
	}
	r.invalidate(ctx)
	return nil
}

// invalidate does not fail the mutation, the server already applied it.
func (r *Resource[T, A, U, P]) invalidate(ctx context.Context) {
	prefixes := append([]querycache.Key{querycache.ListPrefix(r.name)}, Invalidations[r.name]...)
	if err := r.client.cache.Invalidate(ctx, prefixes...); err != nil {
		r.client.logger.Warnw("failed to invalidate queries", "resource", r.name, "error", err)
	}
}

type decodeFunc[T any] func(e querycache.Entry) (T, error)

func fetch[T any](ctx context.Context, c *Client, key querycache.Key, load querycache.FetchFunc, decode decodeFunc[T]) QueryResult[T] {
	entry, err := c.cache.Fetch(ctx, key, load)
	if err != nil {
		result := failure[T](err)
		if cached, found := c.cache.Peek(ctx, key); found {
			if data, decodeErr := decode(cached); decodeErr == nil {
				result.Data = data
				result.Stale = true
			}
		}
		return result
	}
	data, err := decode(entry)
	if err != nil {
		return failure[T](err)
	}
	return success(data)
}

func decodeData[T any](e querycache.Entry) (T, error) {
	var data T
	if len(e.Data) == 0 {
		return data, nil
	}
	err := json.Unmarshal(e.Data, &data)
	return data, err
}

func decodePage[T any](e querycache.Entry) (Page[T], error) {
	page := Page[T]{}
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &page.Items); err != nil {
			return page, err
		}
	}
	if len(e.Meta) > 0 {
		if err := json.Unmarshal(e.Meta, &page.Meta); err != nil {
			return page, err
		}
	} else {
		page.Meta = models.Meta{Total: int64(len(page.Items))}
	}
	return page, nil
}
