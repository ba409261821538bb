// Package storage provides the key/value persistence layer under the ledger
// state map.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrDBClosed is returned when operating on a closed database.
	ErrDBClosed = errors.New("database is closed")
	// ErrKeyNotFound is returned by Read for a missing key.
	ErrKeyNotFound = errors.New("key not found")
)

// DB defines the basic operations any storage backend must support.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	Batch(ctx context.Context, ops []BatchOperation) error

	Close() error
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

// BatchOpType selects the batch operation kind.
type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
