// Package store provides a uniform accessor over a named document
// collection. Entity models depend on the Collection interface only;
// the production implementation is backed by GORM/postgres and an
// in-memory implementation backs the tests.
package store

import "context"

// Filter is a column-keyed equality filter. An empty filter matches
// every document in the collection.
type Filter map[string]any

// Patch is a column-keyed partial update. Use NormalizePatch to build
// one from a client-supplied JSON document.
type Patch map[string]any

// Collection is the only data-access primitive in the system. A zero
// matched/deleted count is the sole "not found" signal for updates and
// deletes; FindByID and FindOne return a nil entity instead of an error
// when nothing matches.
type Collection[T any] interface {
	FindAll(ctx context.Context, filter Filter) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindOne(ctx context.Context, filter Filter) (*T, error)
	InsertOne(ctx context.Context, doc *T) error
	UpdateByID(ctx context.Context, id string, patch Patch) (int64, error)
	DeleteByID(ctx context.Context, id string) (int64, error)
}
