package store

import "errors"

// ErrNotFound is returned by a DB when no value is stored under a key.
var ErrNotFound = errors.New("key not found")

// DB is the key-value storage interface used by the Gateway.
type DB interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(key string) ([]byte, error)
	// Put creates or overwrites the value stored under key
	Put(key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error
	Delete(key string) error
	// Close ends the database connection
	Close() error
}
