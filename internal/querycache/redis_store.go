package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Store = &RedisStore{}

// RedisStore keeps entries in redis so that several processes share one cache.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore creates a RedisStore. Keys are prefixed with namespace and
// expire after ttl, a zero ttl keeps them until they are deleted.
func NewRedisStore(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	if namespace == "" {
		namespace = "huddle:querycache:"
	}
	return &RedisStore{
		client:    client,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	data, err := s.client.Get(ctx, s.namespace+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("corrupt cache entry %q: %w", key, err)
	}
	return e, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.namespace+key, data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.namespace+key).Err()
}

func (s *RedisStore) MarkStale(ctx context.Context, prefix string) (int, error) {
	marked := 0
	err := s.scan(ctx, escapeGlob(prefix)+"*", func(redisKey string) error {
		key := strings.TrimPrefix(redisKey, s.namespace)
		if !matches(key, prefix) {
			return nil
		}
		ok, err := s.markStale(ctx, redisKey)
		if ok {
			marked++
		}
		return err
	})
	return marked, err
}

const markStaleAttempts = 5

// markStale flips the stale flag of one key under WATCH. A write landing
// between the read and the update aborts the transaction and the entry is
// read again, so a concurrent Put is never overwritten with older data.
func (s *RedisStore) markStale(ctx context.Context, redisKey string) (bool, error) {
	marked := false
	update := func(tx *redis.Tx) error {
		marked = false
		data, err := tx.Get(ctx, redisKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("corrupt cache entry %q: %w", redisKey, err)
		}
		if e.Stale {
			return nil
		}
		e.Stale = true
		if data, err = json.Marshal(e); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, data, redis.KeepTTL)
			return nil
		})
		if err == nil {
			marked = true
		}
		return err
	}

	for i := 0; i < markStaleAttempts; i++ {
		err := s.client.Watch(ctx, update, redisKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return marked, err
		}
	}
	return false, fmt.Errorf("marking %q stale: %w", redisKey, redis.TxFailedErr)
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.scan(ctx, "*", func(redisKey string) error {
		return s.client.Del(ctx, redisKey).Err()
	})
}

func (s *RedisStore) scan(ctx context.Context, pattern string, fn func(redisKey string) error) error {
	iter := s.client.Scan(ctx, 0, escapeGlob(s.namespace)+pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}

func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
