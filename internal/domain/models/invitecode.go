// internal/domain/models/invitecode.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InviteCode is a single-use, staff-issued code. UsedBy/UsedAt are set when
// the code is consumed at account creation and never change afterward.
type InviteCode struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	TeamID    primitive.ObjectID  `bson:"team_id" json:"team_id"`
	Code      string              `bson:"code" json:"code"`
	CreatedBy primitive.ObjectID  `bson:"created_by" json:"created_by"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
	UsedBy    *primitive.ObjectID `bson:"used_by,omitempty" json:"used_by,omitempty"`
	UsedAt    *time.Time          `bson:"used_at,omitempty" json:"used_at,omitempty"`
}

// Used reports whether the invite has been consumed.
func (c InviteCode) Used() bool {
	return c.UsedBy != nil
}
