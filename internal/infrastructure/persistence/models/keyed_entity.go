package models

import "time"

// KeyedEntityModel is one stored entity. The payload holds the entity's JSON
// document; the active flag and timestamps are mirrored in columns for filtering.
type KeyedEntityModel struct {
	Namespace string    `gorm:"primaryKey;type:varchar(64);index:idx_keyed_entities_ns_active,priority:1"`
	EntityID  string    `gorm:"primaryKey;column:entity_id;type:varchar(128)"`
	Active    bool      `gorm:"not null;index:idx_keyed_entities_ns_active,priority:2"`
	Payload   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (KeyedEntityModel) TableName() string {
	return "keyed_entities"
}
