package redis

import (
	"context"
	"time"
)

// TypedStore keeps JSON-encoded values of type T under a common key prefix.
type TypedStore[T any] struct {
	client    *Client
	keyPrefix string
}

// NewTypedStore creates a TypedStore on client. Keys are stored as
// keyPrefix:key, or verbatim when keyPrefix is empty.
func NewTypedStore[T any](client *Client, keyPrefix string) *TypedStore[T] {
	return &TypedStore[T]{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Key returns the full Redis key for key.
func (s *TypedStore[T]) Key(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns the value for key, or nil when it does not exist.
func (s *TypedStore[T]) Load(ctx context.Context, key string) (*T, error) {
	return GetAs[T](ctx, s.client, s.Key(key))
}

// LoadMany returns values in key order, nil where a key does not exist.
func (s *TypedStore[T]) LoadMany(ctx context.Context, keys ...string) ([]*T, error) {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.Key(k)
	}
	return MGetAs[T](ctx, s.client, full...)
}

// Save stores val. A ttl of 0 means no expiration.
func (s *TypedStore[T]) Save(ctx context.Context, key string, val *T, ttl time.Duration) error {
	if ttl > 0 {
		return s.client.SetJSONEx(ctx, s.Key(key), val, ttl)
	}
	return s.client.SetJSON(ctx, s.Key(key), val)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *TypedStore[T]) Delete(ctx context.Context, key string) error {
	_, err := s.client.Del(ctx, s.Key(key))
	return err
}
