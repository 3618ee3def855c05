// Package metadata provides the client's durable key/value store. The
// session token lives here under common.TokenKey; the SQLite flavour keeps
// it in a local file, the Redis flavour in a hash shared by every process
// pointed at the same key.
package metadata

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("metadata key not found")

// Repository is the key/value contract the session store relies on.
// Deleting an absent key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
