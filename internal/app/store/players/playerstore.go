// internal/app/store/players/playerstore.go
package playerstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/teamstats/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrDuplicateNumber is returned when another active player on the team
// already wears the number (partial unique index on active players).
var ErrDuplicateNumber = errors.New("duplicate number")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("players")}
}

// Query selects players for List.
type Query struct {
	TeamID     primitive.ObjectID
	ActiveOnly bool
	Positions  []string // empty means any
}

// List returns the matching players ordered by number, then name.
func (s *Store) List(ctx context.Context, q Query) ([]models.Player, error) {
	filter := bson.M{"team_id": q.TeamID}
	if q.ActiveOnly {
		filter["is_active"] = true
	}
	if len(q.Positions) > 0 {
		filter["position"] = bson.M{"$in": q.Positions}
	}
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Player{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Player, error) {
	var p models.Player
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Player{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Player) (models.Player, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Player{}, ErrDuplicateNumber
		}
		return models.Player{}, err
	}
	return p, nil
}

// Update replaces the editable fields of p. Returns mongo.ErrNoDocuments
// when p does not exist.
func (s *Store) Update(ctx context.Context, p models.Player) (models.Player, error) {
	p.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, p.ID, bson.M{"$set": bson.M{
		"name":       p.Name,
		"number":     p.Number,
		"position":   p.Position,
		"is_active":  p.IsActive,
		"updated_at": p.UpdatedAt,
	}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Player{}, ErrDuplicateNumber
		}
		return models.Player{}, err
	}
	if res.MatchedCount == 0 {
		return models.Player{}, mongo.ErrNoDocuments
	}
	return p, nil
}

// NumberTaken reports whether an active player other than except wears
// number on the team.
func (s *Store) NumberTaken(ctx context.Context, teamID primitive.ObjectID, number int, except primitive.ObjectID) (bool, error) {
	filter := bson.M{"team_id": teamID, "number": number, "is_active": true}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
