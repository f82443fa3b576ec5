package walk

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no record matches the request.
	ErrNotFound = errors.New("walk record not found")
	// ErrInvalid is returned when a record field is out of range.
	ErrInvalid = errors.New("invalid walk record")
	// ErrStorage wraps any failure of the underlying persistence layer.
	ErrStorage = errors.New("walk storage failure")
)

// Store is the contract every walk persistence backend satisfies.
//
// List returns records ordered by Date descending; records sharing a Date keep
// insertion order (ID ascending). Latest returns the first record of that order.
type Store interface {
	Insert(ctx context.Context, rec Record) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Latest(ctx context.Context) (Record, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}
