// internal/app/store/invites/invitestore.go
package invitestore

import (
	"context"
	"errors"
	"strings"
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

var (
	ErrDuplicateCode = errors.New("invite code already exists")
	// ErrInvalidCode covers unknown and already-used codes alike.
	ErrInvalidCode = errors.New("invite code is invalid or already used")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invite_codes")}
}

func (s *Store) Create(ctx context.Context, teamID, createdBy primitive.ObjectID, code string) (models.InviteCode, error) {
	ic := models.InviteCode{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, ic); err != nil {
		if wafflemongo.IsDup(err) {
			return models.InviteCode{}, ErrDuplicateCode
		}
		return models.InviteCode{}, err
	}
	return ic, nil
}

// Consume marks an unused code as used by userID and returns it. The
// match on a missing used_by makes a code single-use even under races.
func (s *Store) Consume(ctx context.Context, code string, userID primitive.ObjectID) (models.InviteCode, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var ic models.InviteCode
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"code": strings.ToUpper(strings.TrimSpace(code)), "used_by": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"used_by": userID, "used_at": now}},
		opts,
	).Decode(&ic)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.InviteCode{}, ErrInvalidCode
	}
	if err != nil {
		return models.InviteCode{}, err
	}
	return ic, nil
}

// ListByTeam returns the team's invites, newest first.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.InviteCode, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.InviteCode{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
