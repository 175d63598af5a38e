// internal/domain/models/team.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Team is a roster owner. JoinCode is durable and lets new accounts join
// as viewers; SeasonLabel is the default season for new games and summaries.
type Team struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	JoinCode    string             `bson:"join_code" json:"join_code,omitempty"`
	SeasonLabel string             `bson:"season_label" json:"season_label"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
