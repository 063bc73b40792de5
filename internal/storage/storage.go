// Package storage provides key-value persistence for serialized journal snapshots.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no snapshot is stored under a key.
var ErrNotFound = errors.New("snapshot not found")

//go:generate mockgen -source=storage.go -destination=../mocks/storage/mock_storage.go -package=mock_storage

// Storage reads and writes whole snapshots by key.
type Storage interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Copier is implemented by storages that can copy one key to another atomically.
// check is called with the source body and the copy is aborted when it returns an error.
type Copier interface {
	Copy(ctx context.Context, srcKey, dstKey string, check func([]byte) error) error
}
