// Package kvstore holds the durable string values kept per user: the
// forwarding URL, the shared secret and the serialized cookie jar.
//
// Writers are not coordinated. The service assumes a single process owns
// the data, so at most one writer exists per user key.
package kvstore

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys that cannot be mapped to a storage location.
var ErrInvalidKey = errors.New("invalid key")

// Store is a durable key/value store of string values.
type Store interface {
	// Get returns the value stored for key. found is false when nothing was stored.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	// Set overwrites the value stored for key.
	Set(ctx context.Context, key, value string) error
}
