// internal/app/store/memberships/membershipstore.go
package membershipstore

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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_memberships")}
}

var (
	errBadRole = errors.New(`role must be "staff" or "viewer"`)

	ErrDuplicateMembership = errors.New("user is already a member of this team")
	// ErrNotViewer is returned by Promote when no active viewer membership
	// matched.
	ErrNotViewer = errors.New("membership is not an active viewer")
)

// Create adds an active membership. Returns ErrDuplicateMembership if the
// user already has a membership (active or not) on the team.
func (s *Store) Create(ctx context.Context, teamID, userID primitive.ObjectID, role string) (models.Membership, error) {
	if role != models.RoleStaff && role != models.RoleViewer {
		return models.Membership{}, errBadRole
	}
	now := time.Now().UTC()
	m := models.Membership{
		ID:        primitive.NewObjectID(),
		TeamID:    teamID,
		UserID:    userID,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Active returns the user's active membership on the team, or
// mongo.ErrNoDocuments.
func (s *Store) Active(ctx context.Context, userID, teamID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"team_id": teamID, "user_id": userID, "is_active": true}).Decode(&m)
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// Primary returns the user's oldest active membership, or
// mongo.ErrNoDocuments when they belong to no team.
func (s *Store) Primary(ctx context.Context, userID primitive.ObjectID) (models.Membership, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	var m models.Membership
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}, opts).Decode(&m); err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// ListByUser returns every active membership of the user, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Membership{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTeam returns the team's active memberships, oldest first.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID, "is_active": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Membership{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Promote flips an active viewer to staff and returns the updated
// membership. Returns ErrNotViewer if nothing matched.
func (s *Store) Promote(ctx context.Context, teamID, userID primitive.ObjectID) (models.Membership, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var m models.Membership
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"team_id": teamID, "user_id": userID, "is_active": true, "role": models.RoleViewer},
		bson.M{"$set": bson.M{"role": models.RoleStaff, "updated_at": time.Now().UTC()}},
		opts,
	).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Membership{}, ErrNotViewer
	}
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// CountByTeam returns the number of active members on a team.
func (s *Store) CountByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"team_id": teamID, "is_active": true})
}
