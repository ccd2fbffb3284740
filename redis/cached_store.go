package redis

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedStore puts an in-process cache in front of a TypedStore. Reads are
// served locally until the local entry expires; writes go to Redis first and
// then refresh the local entry. Other processes' writes become visible after
// the local ttl, or after Invalidate. The local tier holds the JSON payload,
// so every Load decodes a value the caller owns outright.
type CachedStore[T any] struct {
	store *TypedStore[T]
	local *gocache.Cache
}

// NewCachedStore wraps store with a local tier whose entries live for
// localTTL. Expired entries are purged every cleanup interval.
func NewCachedStore[T any](store *TypedStore[T], localTTL, cleanup time.Duration) *CachedStore[T] {
	return &CachedStore[T]{
		store: store,
		local: gocache.New(localTTL, cleanup),
	}
}

// Load returns a copy of the value for key, consulting the local tier first.
func (s *CachedStore[T]) Load(ctx context.Context, key string) (*T, error) {
	if data, ok := s.local.Get(key); ok {
		var v T
		if err := json.Unmarshal(data.([]byte), &v); err != nil {
			s.local.Delete(key)
			return nil, decodeError(s.store.Key(key), err)
		}
		return &v, nil
	}

	v, err := s.store.Load(ctx, key)
	if err != nil || v == nil {
		return v, err
	}
	s.remember(key, v)
	return v, nil
}

// Save writes val to Redis and refreshes the local entry.
func (s *CachedStore[T]) Save(ctx context.Context, key string, val *T, ttl time.Duration) error {
	if err := s.store.Save(ctx, key, val, ttl); err != nil {
		s.local.Delete(key)
		return err
	}
	if val == nil {
		s.local.Delete(key)
		return nil
	}
	s.remember(key, val)
	return nil
}

// Delete removes key from Redis and the local tier.
func (s *CachedStore[T]) Delete(ctx context.Context, key string) error {
	s.local.Delete(key)
	return s.store.Delete(ctx, key)
}

// Invalidate drops the local entry for key.
func (s *CachedStore[T]) Invalidate(key string) {
	s.local.Delete(key)
}

// Flush drops every local entry.
func (s *CachedStore[T]) Flush() {
	s.local.Flush()
}

// LocalLen returns the number of locally cached entries, expired ones included.
func (s *CachedStore[T]) LocalLen() int {
	return s.local.ItemCount()
}

func (s *CachedStore[T]) remember(key string, v *T) {
	data, err := json.Marshal(v)
	if err != nil {
		s.local.Delete(key)
		return
	}
	s.local.SetDefault(key, data)
}
