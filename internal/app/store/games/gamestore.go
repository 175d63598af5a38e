// internal/app/store/games/gamestore.go
package gamestore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

// ErrStatusChanged is returned by SetStatus when the game is no longer in
// the expected status (a concurrent transition won).
var ErrStatusChanged = errors.New("game status changed concurrently")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("games")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Game, error) {
	var g models.Game
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Game{}, err
	}
	return g, nil
}

func seasonFilter(teamID primitive.ObjectID, season string) bson.M {
	f := bson.M{"team_id": teamID}
	if season != "" {
		f["season"] = season
	}
	return f
}

// List returns the team's games for season ("" = every season) in date
// order, oldest first.
func (s *Store) List(ctx context.Context, teamID primitive.ObjectID, season string) ([]models.Game, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, seasonFilter(teamID, season), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Game{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListIDs returns only the ids of the team's games for season.
func (s *Store) ListIDs(ctx context.Context, teamID primitive.ObjectID, season string) ([]primitive.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cur, err := s.c.Find(ctx, seasonFilter(teamID, season), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	return ids, cur.Err()
}

// Seasons returns the distinct season labels the team has games in,
// sorted ascending.
func (s *Store) Seasons(ctx context.Context, teamID primitive.ObjectID) ([]string, error) {
	vals, err := s.c.Distinct(ctx, "season", bson.M{"team_id": teamID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) Create(ctx context.Context, g models.Game) (models.Game, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.WorkflowStatus == "" {
		g.WorkflowStatus = models.GameDraft
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Game{}, err
	}
	return g, nil
}

// UpdateInfo replaces game metadata. WorkflowStatus is not touched; use
// SetStatus.
func (s *Store) UpdateInfo(ctx context.Context, g models.Game) (models.Game, error) {
	g.UpdatedAt = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, g.ID, bson.M{"$set": bson.M{
		"date":          g.Date,
		"opponent":      g.Opponent,
		"venue":         g.Venue,
		"period_length": g.PeriodLength,
		"has_overtime":  g.HasOvertime,
		"season":        g.Season,
		"updated_at":    g.UpdatedAt,
	}})
	if err != nil {
		return models.Game{}, err
	}
	if res.MatchedCount == 0 {
		return models.Game{}, mongo.ErrNoDocuments
	}
	return g, nil
}

// SetStatus moves the game from one status to another. The update only
// applies while the stored status still equals from.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, from, to string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "workflow_status": from},
		bson.M{"$set": bson.M{"workflow_status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStatusChanged
	}
	return nil
}

// TouchEditable stamps updated_at on the game unless it is finalized and
// reports whether it matched. Run inside a transaction with a stat write,
// the touch conflicts with a concurrent finalize so only one commits.
func (s *Store) TouchEditable(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "workflow_status": bson.M{"$ne": models.GameFinalized}},
		bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// Delete removes a game by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
