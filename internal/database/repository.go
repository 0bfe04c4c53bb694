package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindOptions controls eager loading and paging of Find.
// Skip <= 0 means no offset, Take <= 0 means no limit.
type FindOptions struct {
	Relations []string
	Skip      int
	Take      int
}

// Repository is a GORM-backed store for one record type
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository for T
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Find returns the records matching filter ordered by primary key
func (r *Repository[T]) Find(ctx context.Context, filter map[string]any, opts FindOptions) ([]T, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	for _, relation := range opts.Relations {
		query = query.Preload(relation)
	}
	if len(filter) > 0 {
		query = query.Where(filter)
	}
	if opts.Skip > 0 {
		query = query.Offset(opts.Skip)
	}
	if opts.Take > 0 {
		query = query.Limit(opts.Take)
	}

	records := []T{}
	if err := query.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to find records: %w", err)
	}
	return records, nil
}

// FindOne returns the first record matching filter, or nil if there is none
func (r *Repository[T]) FindOne(ctx context.Context, filter map[string]any, relations ...string) (*T, error) {
	query := r.db.WithContext(ctx)
	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var record T
	err := query.Where(filter).Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return &record, nil
}

// FindByID returns the record with the given primary key, or nil if there is none
func (r *Repository[T]) FindByID(ctx context.Context, id uint, relations ...string) (*T, error) {
	query := r.db.WithContext(ctx)
	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var record T
	err := query.Take(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record %d: %w", id, err)
	}
	return &record, nil
}

// Create builds a new record from shape without persisting it
func (r *Repository[T]) Create(shape T) *T {
	return &shape
}

// Save inserts or updates entity by identity. New related records are
// inserted along with it. Associations named in replace have their stored
// set replaced by the in-memory one.
func (r *Repository[T]) Save(ctx context.Context, entity *T, replace ...string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(entity).Error; err != nil {
			return err
		}
		for _, name := range replace {
			field := reflect.ValueOf(entity).Elem().FieldByName(name)
			if !field.IsValid() {
				return fmt.Errorf("unknown association %q", name)
			}
			if err := tx.Model(entity).Association(name).Replace(field.Interface()); err != nil {
				return fmt.Errorf("failed to replace %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

// Remove deletes entity together with its join rows and returns the
// removed snapshot. Related records themselves are kept.
func (r *Repository[T]) Remove(ctx context.Context, entity *T) (*T, error) {
	snapshot := *entity
	if err := r.db.WithContext(ctx).Select(clause.Associations).Delete(entity).Error; err != nil {
		return nil, fmt.Errorf("failed to remove record: %w", err)
	}
	return &snapshot, nil
}

// Preload loads the record with the given id including its associations
// and applies patch to it in memory. It returns nil if the id is unknown.
func (r *Repository[T]) Preload(ctx context.Context, id uint, patch func(*T)) (*T, error) {
	record, err := r.FindByID(ctx, id, clause.Associations)
	if err != nil || record == nil {
		return nil, err
	}
	if patch != nil {
		patch(record)
	}
	return record, nil
}
