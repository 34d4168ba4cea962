// Package kv persists opaque string values under string keys. It plays the
// role browser local storage plays for the web client: the storage adapter
// layers typed access and codecs on top of it.
package kv

import "context"

type Repository interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent.
	Delete(ctx context.Context, key string) error
}
