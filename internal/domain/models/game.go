// internal/domain/models/game.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Game workflow statuses.
const (
	GameDraft      = "draft"
	GameInProgress = "in_progress"
	GameFinalized  = "finalized"
)

// Game holds per-game metadata. Date is a calendar date (YYYY-MM-DD) in the
// team's local sense; no time zone is attached.
type Game struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	TeamID         primitive.ObjectID `bson:"team_id" json:"team_id"`
	Date           string             `bson:"date" json:"date"`
	Opponent       string             `bson:"opponent" json:"opponent"`
	Venue          string             `bson:"venue,omitempty" json:"venue,omitempty"`
	PeriodLength   int                `bson:"period_length" json:"period_length"`
	HasOvertime    bool               `bson:"has_overtime" json:"has_overtime"`
	Season         string             `bson:"season" json:"season"`
	WorkflowStatus string             `bson:"workflow_status" json:"workflow_status"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
