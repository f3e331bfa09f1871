package store

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/pitabwire/locset/data"
)

// Repository provides generic CRUD operations for any model type keyed on the
// two indexed localization fields or any other schema column.
type Repository[T data.BaseModelI] interface {
	GetByID(ctx context.Context, id string) (T, error)
	GetFirstBy(ctx context.Context, properties map[string]any) (T, error)
	GetAllBy(ctx context.Context, properties map[string]any) ([]T, error)
	Save(ctx context.Context, entity T) error
}

// repository is the concrete gorm backed implementation of Repository.
type repository[T data.BaseModelI] struct {
	db *gorm.DB
	// modelFactory creates a new instance of T for queries
	modelFactory func() T
	// tableName caches the table name to avoid repeated reflection
	tableName string
	// allowedColumns whitelist for safe column access (set during initialization)
	allowedColumns map[string]bool
}

// NewRepository creates a repository for the model produced by modelFactory.
func NewRepository[T data.BaseModelI](db *gorm.DB, modelFactory func() T) (Repository[T], error) {
	repo := &repository[T]{
		db:             db,
		modelFactory:   modelFactory,
		allowedColumns: make(map[string]bool),
	}

	model := modelFactory()
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, err
	}
	repo.tableName = stmt.Schema.Table

	for _, field := range stmt.Schema.Fields {
		repo.allowedColumns[field.DBName] = true
	}

	return repo, nil
}

// validateColumn checks if a column name is safe to use in queries.
func (r *repository[T]) validateColumn(column string) error {
	if !r.allowedColumns[column] {
		return fmt.Errorf("invalid column name: %s", column)
	}
	return nil
}

// applyFilters translates a property map into WHERE clauses. Slice values
// become membership (IN) filters, everything else compares for equality.
func (r *repository[T]) applyFilters(query *gorm.DB, properties map[string]any) (*gorm.DB, error) {
	for key, value := range properties {
		if err := r.validateColumn(key); err != nil {
			return nil, err
		}

		if value != nil && reflect.TypeOf(value).Kind() == reflect.Slice {
			query = query.Where(key+" IN ?", value)
			continue
		}

		query = query.Where(key+" = ?", value)
	}

	return query, nil
}

// GetByID retrieves an entity by its ID.
func (r *repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	entity := r.modelFactory()
	err := r.db.WithContext(ctx).Where("id = ?", id).First(entity).Error
	return entity, err
}

// GetFirstBy retrieves the single entity matching the given properties.
func (r *repository[T]) GetFirstBy(ctx context.Context, properties map[string]any) (T, error) {
	entity := r.modelFactory()

	query, err := r.applyFilters(r.db.WithContext(ctx), properties)
	if err != nil {
		return entity, err
	}

	err = query.First(entity).Error
	return entity, err
}

// GetAllBy retrieves all entities matching the given properties.
func (r *repository[T]) GetAllBy(ctx context.Context, properties map[string]any) ([]T, error) {
	query, err := r.applyFilters(r.db.WithContext(ctx), properties)
	if err != nil {
		return nil, err
	}

	var entities []T
	err = query.Find(&entities).Error
	return entities, err
}

// Save creates or updates an entity with optimistic locking. New entities
// (version <= 0) are created; existing entities update behind a version check
// to prevent lost updates.
func (r *repository[T]) Save(ctx context.Context, entity T) error {
	if entity.GetVersion() > 0 && entity.GetID() == "" {
		return fmt.Errorf("entity ID is required for updates")
	}

	if entity.GetVersion() <= 0 {
		return r.db.WithContext(ctx).Create(entity).Error
	}

	currentVersion := entity.GetVersion()

	result := r.db.WithContext(ctx).
		Model(entity).
		Where("id = ? AND version = ?", entity.GetID(), currentVersion).
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf(
			"optimistic lock failed: entity (id=%s) was modified by another transaction (expected version: %d)",
			entity.GetID(), currentVersion)
	}

	return nil
}
