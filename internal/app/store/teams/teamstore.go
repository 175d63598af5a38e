// internal/app/store/teams/teamstore.go
package teamstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/teamstats/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateJoinCode means the generated join code is already taken.
var ErrDuplicateJoinCode = errors.New("join code already in use")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// GetByJoinCode looks a team up by its (case-insensitive) join code.
func (s *Store) GetByJoinCode(ctx context.Context, code string) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"join_code": strings.ToUpper(strings.TrimSpace(code))}).Decode(&t)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// Create inserts t with a new ID. t.JoinCode must already be set.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateJoinCode
		}
		return models.Team{}, err
	}
	return t, nil
}

// Delete removes a team by ID. Deleting a missing team is not an error.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// UpdateSeason sets the team's current season label. Returns
// mongo.ErrNoDocuments when the team does not exist.
func (s *Store) UpdateSeason(ctx context.Context, id primitive.ObjectID, season string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"season_label": season,
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
