// Package store provides the keyed entity store backends used by the
// application services: an in-process memory store, a Redis store and, through
// the persistence package, a SQL store.
package store

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/pharmalink/backend/internal/domain/shared"
)

// Key returns the storage key of an entity in a namespace
func Key(namespace, id string) string {
	return namespace + "-" + id
}

// codec encodes entities to and from their stored JSON form
type codec[T shared.Entity] struct {
	newEntity func() T
}

func (c codec[T]) encode(entity T) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", shared.ErrDbOperationFailure, entity.GetID(), err)
	}
	return data, nil
}

func (c codec[T]) decode(data []byte) (T, error) {
	entity := c.newEntity()
	if err := json.Unmarshal(data, entity); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: decode: %v", shared.ErrDbOperationFailure, err)
	}
	return entity, nil
}

// prepareInsert assigns an id when missing and stamps both timestamps
func prepareInsert[T shared.Entity](entity T, now time.Time) {
	if entity.GetID() == "" {
		entity.SetID(shared.NewID())
	}
	entity.Touch(now, true)
}

func clock() time.Time {
	return time.Now().UTC()
}
