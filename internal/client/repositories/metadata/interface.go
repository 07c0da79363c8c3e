// Package metadata is the CLI's small key/value cache. Values are opaque
// blobs; callers seal anything sensitive before storing it.
package metadata

import (
	"context"
)

// Repository stores blobs by key. Get returns common.ErrorNotFound for a
// key that was never set or has been deleted.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
