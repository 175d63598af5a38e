// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages audit entries. Entries are append-only.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// Append records an entry, filling in ID and Timestamp when unset.
func (s *Store) Append(ctx context.Context, e models.AuditEntry) (models.AuditEntry, error) {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.AuditEntry{}, err
	}
	return e, nil
}

// ListByTeam returns up to limit entries for the team, newest first. When
// before is non-zero only entries with a smaller _id are returned, which
// gives stable keyset paging.
func (s *Store) ListByTeam(ctx context.Context, teamID, before primitive.ObjectID, limit int64) ([]models.AuditEntry, error) {
	query := bson.M{"team_id": teamID}
	if !before.IsZero() {
		query["_id"] = bson.M{"$lt": before}
	}
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []models.AuditEntry{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByTeam returns the number of entries recorded for a team.
func (s *Store) CountByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"team_id": teamID})
}
