package store

import (
	"context"
	"fmt"

	"github.com/pharmalink/backend/internal/domain/shared"
	"github.com/pharmalink/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLStore implements shared.KeyedStore on a single GORM table shared by all
// namespaces; rows are partitioned by the namespace column.
type SQLStore[T shared.Entity] struct {
	db        *gorm.DB
	namespace string
	codec     codec[T]
}

// NewSQLStore creates a SQL-backed store for a namespace
func NewSQLStore[T shared.Entity](db *gorm.DB, namespace string, newEntity func() T) *SQLStore[T] {
	return &SQLStore[T]{
		db:        db,
		namespace: namespace,
		codec:     codec[T]{newEntity: newEntity},
	}
}

// Get returns the entity stored under id, active or not
func (s *SQLStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var rows []models.KeyedEntityModel
	if err := s.db.WithContext(ctx).
		Where("namespace = ? AND entity_id = ?", s.namespace, id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return zero, false, fmt.Errorf("%w: get %s: %v", shared.ErrDbOperationFailure, Key(s.namespace, id), err)
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	entity, err := s.codec.decode([]byte(rows[0].Payload))
	if err != nil {
		return zero, false, err
	}
	return entity, true, nil
}

// GetAll returns every active entity of the namespace, oldest first
func (s *SQLStore[T]) GetAll(ctx context.Context) ([]T, error) {
	var rows []models.KeyedEntityModel
	if err := s.db.WithContext(ctx).
		Where("namespace = ? AND active = ?", s.namespace, true).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: list %s: %v", shared.ErrDbOperationFailure, s.namespace, err)
	}

	result := make([]T, 0, len(rows))
	for _, row := range rows {
		entity, err := s.codec.decode([]byte(row.Payload))
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	return result, nil
}

// Insert stores a new entity. A conflicting primary key leaves the row untouched.
func (s *SQLStore[T]) Insert(ctx context.Context, entity T) (T, error) {
	var zero T
	prepareInsert(entity, clock())

	row, err := s.toModel(entity)
	if err != nil {
		return zero, err
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return zero, fmt.Errorf("%w: insert %s: %v", shared.ErrDbOperationFailure, Key(s.namespace, row.EntityID), result.Error)
	}
	if result.RowsAffected == 0 {
		return zero, fmt.Errorf("%w: %s", shared.ErrEntityAlreadyExists, Key(s.namespace, row.EntityID))
	}
	return entity, nil
}

// Update overwrites the stored entity and bumps its update timestamp
func (s *SQLStore[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity.GetID() == "" {
		return zero, fmt.Errorf("%w: update without id in %s", shared.ErrDbOperationFailure, s.namespace)
	}
	entity.Touch(clock(), false)

	if err := s.upsert(ctx, entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// Delete soft deletes an active entity
func (s *SQLStore[T]) Delete(ctx context.Context, id string) error {
	entity, found, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !found || !entity.IsActive() {
		return fmt.Errorf("%w: %s", shared.ErrEntityNotFound, Key(s.namespace, id))
	}

	entity.Deactivate()
	entity.Touch(clock(), false)
	return s.upsert(ctx, entity)
}

func (s *SQLStore[T]) upsert(ctx context.Context, entity T) error {
	row, err := s.toModel(entity)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "entity_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"active", "payload", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", shared.ErrDbOperationFailure, Key(s.namespace, row.EntityID), err)
	}
	return nil
}

func (s *SQLStore[T]) toModel(entity T) (models.KeyedEntityModel, error) {
	payload, err := s.codec.encode(entity)
	if err != nil {
		return models.KeyedEntityModel{}, err
	}
	return models.KeyedEntityModel{
		Namespace: s.namespace,
		EntityID:  entity.GetID(),
		Active:    entity.IsActive(),
		Payload:   string(payload),
		CreatedAt: entity.GetCreatedAt(),
		UpdatedAt: entity.GetUpdatedAt(),
	}, nil
}

var _ shared.KeyedStore[shared.Entity] = (*SQLStore[shared.Entity])(nil)
