// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles.
const (
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// Membership joins a user to a team with a role.
// Exactly one document per (team_id, user_id). An inactive membership
// carries no role.
type Membership struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
