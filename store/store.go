// Package store provides the key-value persistence behind the bid ledger and
// the ended-auction cache. The store is injected so tests run against an
// in-memory implementation and deployments can pick PostgreSQL.
//
// Concurrent writers (two processes sharing one database) are not
// coordinated; last write wins.
package store

import "errors"

// ErrNotFound is returned by Get for keys that have no value.
var ErrNotFound = errors.New("store: key not found")

// KV is a minimal key-value store. Values are opaque byte slices; callers
// own the encoding.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error

	// List returns all keys starting with prefix, in unspecified order.
	List(prefix string) ([]string, error)
}
