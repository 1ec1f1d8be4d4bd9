// Package querycache caches the results of REST queries by key and lets
// mutations mark them stale so the next read refetches.
package querycache

import (
	"context"
	"time"

	"github.com/huddle-io/huddle/internal/signalbus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/huddle-io/huddle/internal/querycache")
}

// FetchFunc loads a fresh entry from the server.
type FetchFunc func(ctx context.Context) (Entry, error)

type Cache struct {
	store     Store
	bus       signalbus.SignalBus
	staleTime time.Duration
	logger    *zap.SugaredLogger
	now       func() time.Time
}

type Option func(c *Cache)

// WithStore replaces the default in memory store.
func WithStore(store Store) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// WithStaleTime treats entries older than d as stale. Zero keeps entries
// fresh until they are invalidated.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) {
		c.staleTime = d
	}
}

func WithSignalBus(bus signalbus.SignalBus) Option {
	return func(c *Cache) {
		c.bus = bus
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

func New(options ...Option) *Cache {
	c := &Cache{
		store:  NewMemoryStore(),
		bus:    signalbus.NewSignalBus(),
		logger: zap.NewNop().Sugar(),
		now:    time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Cache) isFresh(e Entry) bool {
	if e.Stale {
		return false
	}
	if c.staleTime > 0 && c.now().Sub(e.UpdatedAt) > c.staleTime {
		return false
	}
	return true
}

// Fetch returns the entry stored under key when it is fresh, otherwise it
// calls fetch and stores the result. A failed fetch leaves the cache untouched.
func (c *Cache) Fetch(ctx context.Context, key Key, fetch FetchFunc) (Entry, error) {
	ctx, span := tracer.Start(ctx, "Fetch", trace.WithAttributes(
		attribute.String("key", key.String()),
	))
	defer span.End()

	k := key.String()
	e, found, err := c.store.Get(ctx, k)
	if err != nil {
		c.logger.Warnw("query cache read failed", "key", k, "error", err)
	}
	if found && c.isFresh(e) {
		span.SetAttributes(attribute.Bool("hit", true))
		return e, nil
	}

	e, err = fetch(ctx)
	if err != nil {
		return Entry{}, err
	}
	e.Stale = false
	e.UpdatedAt = c.now()
	if err := c.store.Put(ctx, k, e); err != nil {
		c.logger.Warnw("query cache write failed", "key", k, "error", err)
	}
	return e, nil
}

// Peek returns the entry stored under key without fetching.
func (c *Cache) Peek(ctx context.Context, key Key) (Entry, bool) {
	e, found, err := c.store.Get(ctx, key.String())
	if err != nil {
		c.logger.Warnw("query cache read failed", "key", key.String(), "error", err)
		return Entry{}, false
	}
	if found && !c.isFresh(e) {
		e.Stale = true
	}
	return e, found
}

// Set overwrites the entry stored under key with a fresh value.
func (c *Cache) Set(ctx context.Context, key Key, e Entry) error {
	e.Stale = false
	e.UpdatedAt = c.now()
	return c.store.Put(ctx, key.String(), e)
}

// Remove drops the entry stored under key.
func (c *Cache) Remove(ctx context.Context, key Key) error {
	return c.store.Delete(ctx, key.String())
}

// Invalidate marks every entry matching one of the prefixes stale and
// signals the subscribers of each prefix's resource.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) error {
	for _, prefix := range prefixes {
		n, err := c.store.MarkStale(ctx, prefix.String())
		if err != nil {
			return err
		}
		c.logger.Debugw("invalidated queries", "prefix", prefix.String(), "count", n)
		if len(prefix) > 0 {
			c.bus.Notify(prefix[0])
		}
	}
	return nil
}

// Clear drops every entry, used when a session ends.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	c.bus.NotifyAll()
	return nil
}

// Subscribe returns a subscription that is signaled whenever queries of the
// named resource are invalidated.
func (c *Cache) Subscribe(resource string) *signalbus.Subscription {
	return c.bus.Subscribe(resource)
}
