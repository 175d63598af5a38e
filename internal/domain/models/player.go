// internal/domain/models/player.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Player positions.
const (
	PositionForward = "Forward"
	PositionDefense = "Defense"
	PositionGoalie  = "Goalie"
)

// Player is a roster entry. Number is unique among the team's active
// players only; deactivated players keep their history and free the number.
type Player struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	Name      string             `bson:"name" json:"name"`
	Number    int                `bson:"number" json:"number"`
	Position  string             `bson:"position" json:"position"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsGoalie reports whether the player records goalie lines rather than skater lines.
func (p Player) IsGoalie() bool {
	return p.Position == PositionGoalie
}
