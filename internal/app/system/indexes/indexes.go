// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup (EnsureSchema hook). Each collection's set is
reconciled independently; problems are aggregated so startup fails with a
complete picture.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range sets {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models()); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionSet struct {
	collection string
	models     func() []mongo.IndexModel
}

var sets = []collectionSet{
	{"users", usersIndexes},
	{"teams", teamsIndexes},
	{"team_memberships", membershipIndexes},
	{"players", playersIndexes},
	{"games", gamesIndexes},
	{"skater_stats", statLineIndexes("skater_stats")},
	{"goalie_stats", statLineIndexes("goalie_stats")},
	{"invite_codes", inviteIndexes},
	{"audit_log", auditIndexes},
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{}
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string
	existing := listExisting(ctx, coll)

	for _, m := range models {
		name := *m.Options.Name
		unique := boolVal(m.Options.Unique)
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(ex.Unique) == unique && ex.Name == name {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			// Same keys but different name or uniqueness: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", name),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", unique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func usersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_users_email"),
		},
	}
}

func teamsIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Join codes are looked up at signup and must resolve to one team.
		{
			Keys:    bson.D{{Key: "join_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_teams_join_code"),
		},
	}
}

func membershipIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// One membership per (team, user); the gate's per-team lookup.
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_memberships_team_user"),
		},
		// Primary membership: oldest active for a user.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().SetName("idx_memberships_user_active_created"),
		},
	}
}

func playersIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Jersey numbers are unique among active players only; retired
		// players keep their number for history.
		{
			Keys: bson.D{{Key: "team_id", Value: 1}, {Key: "number", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}).
				SetName("uniq_players_team_number_active"),
		},
		{
			Keys: bson.D{
				{Key: "team_id", Value: 1},
				{Key: "is_active", Value: 1},
				{Key: "position", Value: 1},
			},
			Options: options.Index().SetName("idx_players_team_active_position"),
		},
	}
}

func gamesIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		// Season game lists, newest first.
		{
			Keys: bson.D{
				{Key: "team_id", Value: 1},
				{Key: "season", Value: 1},
				{Key: "date", Value: -1},
			},
			Options: options.Index().SetName("idx_games_team_season_date"),
		},
	}
}

func statLineIndexes(coll string) func() []mongo.IndexModel {
	return func() []mongo.IndexModel {
		return []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "game_id", Value: 1}, {Key: "player_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_" + coll + "_game_player"),
			},
			{
				Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "player_id", Value: 1}},
				Options: options.Index().SetName("idx_" + coll + "_team_player"),
			},
		}
	}
}

func inviteIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_invite_codes_code"),
		},
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_invite_codes_team_created"),
		},
	}
}

func auditIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "team_id", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_audit_team_time"),
		},
	}
}
