// internal/app/store/statlines/statlinestore.go
package statlinestore

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

// Store holds skater and goalie stat lines. Both collections are keyed by
// (game_id, player_id) with a unique index.
type Store struct {
	skaters *mongo.Collection
	goalies *mongo.Collection
}

var (
	// ErrBelowZero is returned by Increment when a negative delta would take
	// the counter below zero (or the line does not exist yet).
	ErrBelowZero = errors.New("stat cannot go below zero")
	// ErrUnknownField is returned for a field that is not a counter of the kind.
	ErrUnknownField = errors.New("unknown stat field")
	ErrUnknownKind  = errors.New("unknown stat kind")
)

func New(db *mongo.Database) *Store {
	return &Store{
		skaters: db.Collection("skater_stats"),
		goalies: db.Collection("goalie_stats"),
	}
}

func (s *Store) coll(kind string) (*mongo.Collection, []string, error) {
	switch kind {
	case models.KindSkater:
		return s.skaters, models.SkaterFields, nil
	case models.KindGoalie:
		return s.goalies, models.GoalieFields, nil
	}
	return nil, nil, ErrUnknownKind
}

func gameFilter(gameIDs []primitive.ObjectID) bson.M {
	return bson.M{"game_id": bson.M{"$in": gameIDs}}
}

// ListSkater returns every skater line for the given games.
func (s *Store) ListSkater(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.SkaterLine, error) {
	out := []models.SkaterLine{}
	if len(gameIDs) == 0 {
		return out, nil
	}
	cur, err := s.skaters.Find(ctx, gameFilter(gameIDs))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListGoalie returns every goalie line for the given games.
func (s *Store) ListGoalie(ctx context.Context, gameIDs []primitive.ObjectID) ([]models.GoalieLine, error) {
	out := []models.GoalieLine{}
	if len(gameIDs) == 0 {
		return out, nil
	}
	cur, err := s.goalies.Find(ctx, gameFilter(gameIDs))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func upsertOpts() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
}

// UpsertSkater replaces the counters of the (game, player) line, creating
// it when absent.
func (s *Store) UpsertSkater(ctx context.Context, l models.SkaterLine) (models.SkaterLine, error) {
	filter := bson.M{"game_id": l.GameID, "player_id": l.PlayerID}
	update := bson.M{
		"$set": bson.M{
			"goals":      l.Goals,
			"assists":    l.Assists,
			"shots":      l.Shots,
			"blocks":     l.Blocks,
			"pim":        l.PIM,
			"updated_at": time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"team_id": l.TeamID},
	}
	var out models.SkaterLine
	err := s.skaters.FindOneAndUpdate(ctx, filter, update, upsertOpts()).Decode(&out)
	if wafflemongo.IsDup(err) {
		// Lost an insert race on the unique key; the retry matches the winner.
		err = s.skaters.FindOneAndUpdate(ctx, filter, update, upsertOpts()).Decode(&out)
	}
	if err != nil {
		return models.SkaterLine{}, err
	}
	return out, nil
}

// UpsertGoalie replaces the counters of the (game, player) line, creating
// it when absent.
func (s *Store) UpsertGoalie(ctx context.Context, l models.GoalieLine) (models.GoalieLine, error) {
	filter := bson.M{"game_id": l.GameID, "player_id": l.PlayerID}
	update := bson.M{
		"$set": bson.M{
			"shots_against": l.ShotsAgainst,
			"saves":         l.Saves,
			"goals_against": l.GoalsAgainst,
			"updated_at":    time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"team_id": l.TeamID},
	}
	var out models.GoalieLine
	err := s.goalies.FindOneAndUpdate(ctx, filter, update, upsertOpts()).Decode(&out)
	if wafflemongo.IsDup(err) {
		err = s.goalies.FindOneAndUpdate(ctx, filter, update, upsertOpts()).Decode(&out)
	}
	if err != nil {
		return models.GoalieLine{}, err
	}
	return out, nil
}

// Increment atomically adds delta to one counter of the (game, player) line
// and returns the new value. A positive delta creates the line (other
// counters 0) when missing. A negative delta only applies when the counter
// is at least -delta; otherwise ErrBelowZero and nothing changes.
func (s *Store) Increment(ctx context.Context, kind string, teamID, gameID, playerID primitive.ObjectID, field string, delta int) (int, error) {
	c, fields, err := s.coll(kind)
	if err != nil {
		return 0, err
	}
	known := false
	for _, f := range fields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return 0, ErrUnknownField
	}

	filter := bson.M{"game_id": gameID, "player_id": playerID}
	onInsert := bson.M{"team_id": teamID}
	for _, f := range fields {
		if f != field {
			onInsert[f] = 0
		}
	}
	update := bson.M{
		"$inc":         bson.M{field: delta},
		"$set":         bson.M{"updated_at": time.Now().UTC()},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if delta < 0 {
		filter[field] = bson.M{"$gte": -delta}
	} else {
		opts.SetUpsert(true)
	}

	var doc bson.M
	err = c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if wafflemongo.IsDup(err) {
		err = c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if errors.Is(err, mongo.ErrNoDocuments) && delta < 0 {
		return 0, ErrBelowZero
	}
	if err != nil {
		return 0, err
	}
	return asInt(doc[field]), nil
}

func asInt(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// CountByGame returns the number of skater and goalie lines for a game.
func (s *Store) CountByGame(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	f := bson.M{"game_id": gameID}
	a, err := s.skaters.CountDocuments(ctx, f)
	if err != nil {
		return 0, err
	}
	b, err := s.goalies.CountDocuments(ctx, f)
	if err != nil {
		return 0, err
	}
	return a + b, nil
}

// DeleteByGame removes all stat lines of a game. Returns the number of
// documents deleted across both collections.
func (s *Store) DeleteByGame(ctx context.Context, gameID primitive.ObjectID) (int64, error) {
	f := bson.M{"game_id": gameID}
	a, err := s.skaters.DeleteMany(ctx, f)
	if err != nil {
		return 0, err
	}
	b, err := s.goalies.DeleteMany(ctx, f)
	if err != nil {
		return 0, err
	}
	return a.DeletedCount + b.DeletedCount, nil
}
