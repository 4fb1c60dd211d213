package metadata

import (
	"context"
)

// Repository is a plaintext key/value store for vault-level settings:
// the key-derivation salt, the key verifier and user preferences.
type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Has(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetAll upserts every pair. Run it on a transaction handle to make
	// the batch atomic.
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
