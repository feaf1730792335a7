// Package storage defines the Store interface every persistence backend
// must satisfy to hold zoo resources.
//
// Handlers depend only on this interface. Switching between the in-memory
// list and a document database is a configuration change; no handler code
// knows which backend it is talking to.
//
// Backends live in sub-packages:
//
//   - memory: process-local ordered list (lost on restart)
//   - mongodb: one MongoDB collection per resource
//   - dynamodb: one DynamoDB table per resource
//   - sqlite: one SQLite table per resource holding JSON documents
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no record carries the requested identifier.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a caller-supplied identifier is taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Store holds the records of one resource type.
// Stores never validate: every record they receive already passed its
// resource validator.
type Store[T any] interface {
	// List returns every record in insertion order.
	// Returns an empty slice (not nil) when there are none.
	List(ctx context.Context) ([]T, error)

	// Get returns the record with the given identifier or ErrNotFound.
	Get(ctx context.Context, id string) (T, error)

	// Create stores rec under candidateID, or under a freshly generated
	// identifier when candidateID is empty, and returns the stored record.
	Create(ctx context.Context, candidateID string, rec T) (T, error)

	// Update replaces the whole field set of the record with the given
	// identifier. The identifier never changes. Missing ids yield ErrNotFound;
	// Update never creates.
	Update(ctx context.Context, id string, rec T) (T, error)

	// Delete removes the record permanently or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
