// internal/domain/models/auditentry.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions.
const (
	AuditInsert = "insert"
	AuditUpdate = "update"
	AuditDelete = "delete"
)

// AuditEntry is an append-only record of a mutation.
type AuditEntry struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	TeamID     primitive.ObjectID `bson:"team_id" json:"team_id"`
	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	Action     string             `bson:"action" json:"action"`
	EntityType string             `bson:"entity_type" json:"entity_type"`
	EntityID   primitive.ObjectID `bson:"entity_id" json:"entity_id"`
	Details    map[string]string  `bson:"details,omitempty" json:"details,omitempty"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}
