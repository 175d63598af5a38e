// Package stats folds per-game stat lines into season totals.
//
// Aggregate is pure: it performs no I/O, never mutates its input and
// returns the same Summary for the same input regardless of slice order.
// Games played is the number of distinct games in which a player has a
// line, never a running counter.
package stats

import (
	"sort"

	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Input is everything Aggregate needs for one team and one season.
// Skaters and Goalies are the active roster; GameIDs is the season's game
// set. Lines outside GameIDs or for players not on the roster are ignored.
type Input struct {
	Skaters     []models.Player
	Goalies     []models.Player
	GameIDs     []primitive.ObjectID
	SkaterLines []models.SkaterLine
	GoalieLines []models.GoalieLine
}

// SkaterTotals are summed skater counts.
type SkaterTotals struct {
	Goals   int `json:"goals"`
	Assists int `json:"assists"`
	Shots   int `json:"shots"`
	Blocks  int `json:"blocks"`
	PIM     int `json:"pim"`
}

// Points is goals plus assists.
func (t SkaterTotals) Points() int { return t.Goals + t.Assists }

// ShootingPct is goals over shots.
func (t SkaterTotals) ShootingPct() Rate { return ratio(t.Goals, t.Shots) }

// GoalieTotals are summed goalie counts.
type GoalieTotals struct {
	ShotsAgainst int `json:"shots_against"`
	Saves        int `json:"saves"`
	GoalsAgainst int `json:"goals_against"`
}

// SavePct is saves over shots against.
func (t GoalieTotals) SavePct() Rate { return ratio(t.Saves, t.ShotsAgainst) }

// SkaterSummary is one skater's season row.
type SkaterSummary struct {
	Player      models.Player `json:"player"`
	GamesPlayed int           `json:"games_played"`
	SkaterTotals
}

// GoalieSummary is one goalie's season row.
type GoalieSummary struct {
	Player      models.Player `json:"player"`
	GamesPlayed int           `json:"games_played"`
	GoalieTotals
}

// GAA is goals against per game played.
func (g GoalieSummary) GAA() Rate { return ratio(g.GoalsAgainst, g.GamesPlayed) }

// TeamTotals sums every rostered skater's totals for the season.
type TeamTotals struct {
	Games int `json:"games"`
	SkaterTotals
}

// Summary is the aggregation result.
type Summary struct {
	Skaters []SkaterSummary `json:"skaters"`
	Goalies []GoalieSummary `json:"goalies"`
	Team    TeamTotals      `json:"team"`
}

// Aggregate folds in into one row per rostered skater and goalie.
// Players with no lines appear with zero totals and zero games played.
func Aggregate(in Input) Summary {
	inSeason := make(map[primitive.ObjectID]struct{}, len(in.GameIDs))
	for _, id := range in.GameIDs {
		inSeason[id] = struct{}{}
	}

	type skaterAcc struct {
		totals SkaterTotals
		games  map[primitive.ObjectID]struct{}
	}
	skaters := make(map[primitive.ObjectID]*skaterAcc, len(in.Skaters))
	for _, p := range in.Skaters {
		skaters[p.ID] = &skaterAcc{games: map[primitive.ObjectID]struct{}{}}
	}
	for _, l := range in.SkaterLines {
		if _, ok := inSeason[l.GameID]; !ok {
			continue
		}
		acc, ok := skaters[l.PlayerID]
		if !ok {
			continue
		}
		acc.totals.Goals += l.Goals
		acc.totals.Assists += l.Assists
		acc.totals.Shots += l.Shots
		acc.totals.Blocks += l.Blocks
		acc.totals.PIM += l.PIM
		acc.games[l.GameID] = struct{}{}
	}

	type goalieAcc struct {
		totals GoalieTotals
		games  map[primitive.ObjectID]struct{}
	}
	goalies := make(map[primitive.ObjectID]*goalieAcc, len(in.Goalies))
	for _, p := range in.Goalies {
		goalies[p.ID] = &goalieAcc{games: map[primitive.ObjectID]struct{}{}}
	}
	for _, l := range in.GoalieLines {
		if _, ok := inSeason[l.GameID]; !ok {
			continue
		}
		acc, ok := goalies[l.PlayerID]
		if !ok {
			continue
		}
		acc.totals.ShotsAgainst += l.ShotsAgainst
		acc.totals.Saves += l.Saves
		acc.totals.GoalsAgainst += l.GoalsAgainst
		acc.games[l.GameID] = struct{}{}
	}

	out := Summary{
		Skaters: make([]SkaterSummary, 0, len(in.Skaters)),
		Goalies: make([]GoalieSummary, 0, len(in.Goalies)),
		Team:    TeamTotals{Games: len(inSeason)},
	}
	seen := make(map[primitive.ObjectID]bool, len(in.Skaters)+len(in.Goalies))
	for _, p := range in.Skaters {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		acc := skaters[p.ID]
		out.Skaters = append(out.Skaters, SkaterSummary{
			Player:       p,
			GamesPlayed:  len(acc.games),
			SkaterTotals: acc.totals,
		})
		out.Team.Goals += acc.totals.Goals
		out.Team.Assists += acc.totals.Assists
		out.Team.Shots += acc.totals.Shots
		out.Team.Blocks += acc.totals.Blocks
		out.Team.PIM += acc.totals.PIM
	}
	for _, p := range in.Goalies {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		acc := goalies[p.ID]
		out.Goalies = append(out.Goalies, GoalieSummary{
			Player:       p,
			GamesPlayed:  len(acc.games),
			GoalieTotals: acc.totals,
		})
	}

	sort.Slice(out.Skaters, func(i, j int) bool {
		return playerLess(out.Skaters[i].Player, out.Skaters[j].Player)
	})
	sort.Slice(out.Goalies, func(i, j int) bool {
		return playerLess(out.Goalies[i].Player, out.Goalies[j].Player)
	})
	return out
}

// playerLess orders by jersey number, then name, then id.
func playerLess(a, b models.Player) bool {
	if a.Number != b.Number {
		return a.Number < b.Number
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.Hex() < b.ID.Hex()
}
