// Package store is the document-store adapter layer. Each collection is
// consumed through a narrow contract: ordered full-collection reads,
// insert/patch/delete writes, and a push feed that delivers a whole
// snapshot of the collection whenever any record changes. Consumers
// replace their entire cached view per snapshot; there is no
// incremental merge.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the referenced id is absent from the collection.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable means the backing store could not complete the
	// read or write.
	ErrUnavailable = errors.New("store unavailable")
)

// Record is any persisted document with an opaque string id.
type Record interface {
	RecordID() string
}

// Collection is the per-collection adapter contract.
type Collection[T Record] interface {
	// List returns the full current collection, ordered by the
	// collection's indexed field.
	List(ctx context.Context) ([]T, error)
	// Insert stores a new record. The caller assigns the id.
	Insert(ctx context.Context, rec T) (string, error)
	// Patch shallow-merges fields into the stored document.
	Patch(ctx context.Context, id string, fields map[string]any) error
	// Delete removes the record.
	Delete(ctx context.Context, id string) error
	// Subscribe returns a snapshot feed and a cancel func. The current
	// snapshot is delivered first, then one snapshot per change. The
	// channel is closed on cancel.
	Subscribe() (<-chan []T, func())
}
