// internal/domain/models/statline.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stat line kinds.
const (
	KindSkater = "skater"
	KindGoalie = "goalie"
)

// SkaterLine is one skater's stats for one game.
// Exactly one document per (game_id, player_id).
type SkaterLine struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID    primitive.ObjectID `bson:"team_id" json:"team_id"`
	GameID    primitive.ObjectID `bson:"game_id" json:"game_id"`
	PlayerID  primitive.ObjectID `bson:"player_id" json:"player_id"`
	Goals     int                `bson:"goals" json:"goals"`
	Assists   int                `bson:"assists" json:"assists"`
	Shots     int                `bson:"shots" json:"shots"`
	Blocks    int                `bson:"blocks" json:"blocks"`
	PIM       int                `bson:"pim" json:"pim"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// GoalieLine is one goalie's stats for one game.
// Exactly one document per (game_id, player_id).
type GoalieLine struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TeamID       primitive.ObjectID `bson:"team_id" json:"team_id"`
	GameID       primitive.ObjectID `bson:"game_id" json:"game_id"`
	PlayerID     primitive.ObjectID `bson:"player_id" json:"player_id"`
	ShotsAgainst int                `bson:"shots_against" json:"shots_against"`
	Saves        int                `bson:"saves" json:"saves"`
	GoalsAgainst int                `bson:"goals_against" json:"goals_against"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// SkaterFields lists the incrementable skater stat fields (bson names).
var SkaterFields = []string{"goals", "assists", "shots", "blocks", "pim"}

// GoalieFields lists the incrementable goalie stat fields (bson names).
var GoalieFields = []string{"shots_against", "saves", "goals_against"}
