// Package models holds the GORM table mappings used by the SQL entity store.
//
// Entities are stored as JSON documents keyed by (namespace, entity id) in a
// single keyed_entities table, so adding an entity kind needs no migration.
// Domain types never carry GORM tags; the store converts at the boundary.
package models
