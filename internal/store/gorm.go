package store

import (
	"context"
	"errors"
	"time"

	"dealership-service/prometheus"

	"gorm.io/gorm"
)

// gormCollection implements Collection on a shared *gorm.DB handle.
type gormCollection[T any] struct {
	db *gorm.DB
}

// NewGormCollection returns a Collection for T backed by the database.
// One accessor is constructed per entity type at startup and injected
// into the corresponding model.
func NewGormCollection[T any](db *gorm.DB) Collection[T] {
	return &gormCollection[T]{db: db}
}

func (g *gormCollection[T]) FindAll(ctx context.Context, filter Filter) ([]T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := g.db.WithContext(ctx)
	if len(filter) > 0 {
		query = query.Where(map[string]any(filter))
	}

	var docs []T
	if result := query.Find(&docs); result.Error != nil {
		return nil, result.Error
	}
	return docs, nil
}

func (g *gormCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var doc T
	result := g.db.WithContext(ctx).First(&doc, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &doc, nil
}

func (g *gormCollection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var doc T
	result := g.db.WithContext(ctx).Where(map[string]any(filter)).First(&doc)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &doc, nil
}

func (g *gormCollection[T]) InsertOne(ctx context.Context, doc *T) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	return g.db.WithContext(ctx).Create(doc).Error
}

func (g *gormCollection[T]) UpdateByID(ctx context.Context, id string, patch Patch) (int64, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	if len(patch) == 0 {
		// Nothing to change, but the caller still needs the matched count.
		existing, err := g.FindByID(ctx, id)
		if err != nil {
			return 0, err
		}
		if existing == nil {
			return 0, nil
		}
		return 1, nil
	}

	result := g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(map[string]any(patch))
	return result.RowsAffected, result.Error
}

func (g *gormCollection[T]) DeleteByID(ctx context.Context, id string) (int64, error) {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := g.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	return result.RowsAffected, result.Error
}
