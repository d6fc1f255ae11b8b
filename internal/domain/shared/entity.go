package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for everything kept in a keyed store
type Entity interface {
	GetID() string
	SetID(id string)
	IsActive() bool
	Deactivate()
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	Touch(at time.Time, created bool)
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createAt"`
	UpdatedAt time.Time `json:"updateAt"`
	Active    bool      `json:"isActive"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() string {
	return e.ID
}

// SetID assigns the entity ID
func (e *BaseEntity) SetID(id string) {
	e.ID = id
}

// IsActive reports whether the entity has not been soft deleted
func (e *BaseEntity) IsActive() bool {
	return e.Active
}

// Deactivate soft deletes the entity
func (e *BaseEntity) Deactivate() {
	e.Active = false
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Touch bumps the update timestamp, and the creation timestamp when created is true
func (e *BaseEntity) Touch(at time.Time, created bool) {
	if created {
		e.CreatedAt = at
	}
	e.UpdatedAt = at
}

// NewBaseEntity creates an active base entity with the given id.
// Timestamps are assigned by the store on insert.
func NewBaseEntity(id string) BaseEntity {
	return BaseEntity{ID: id, Active: true}
}

// NewID returns a random 128-bit identifier rendered as 32 hex characters
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
