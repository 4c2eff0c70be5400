// Package kv is the persistence port used by the snapshot store: a flat
// key/value space with prefix scans. Adapters exist for memory, redis, a gorm
// table and a mongo collection.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Entry struct {
	Key   string
	Value []byte
}

// Store is the persistence port. Scan returns entries whose key starts with
// prefix; callers must not rely on the order.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) ([]Entry, error)
}
