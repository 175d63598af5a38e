// internal/app/features/reports/types.go
package reports

import (
	"github.com/dalemusser/teamstats/internal/app/tracker"
)

// allSeasons is the season label reported when no season filter applied.
const allSeasons = "all"

// Row rates are preformatted strings; an undefined rate is "-".
type skaterRow struct {
	PlayerID    string `json:"player_id"`
	Name        string `json:"name"`
	Number      int    `json:"number"`
	Position    string `json:"position"`
	GamesPlayed int    `json:"games_played"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Points      int    `json:"points"`
	Shots       int    `json:"shots"`
	Blocks      int    `json:"blocks"`
	PIM         int    `json:"pim"`
	ShootingPct string `json:"shooting_pct"`
}

type goalieRow struct {
	PlayerID     string `json:"player_id"`
	Name         string `json:"name"`
	Number       int    `json:"number"`
	GamesPlayed  int    `json:"games_played"`
	ShotsAgainst int    `json:"shots_against"`
	Saves        int    `json:"saves"`
	GoalsAgainst int    `json:"goals_against"`
	SavePct      string `json:"save_pct"`
	GAA          string `json:"gaa"`
}

type teamRow struct {
	Games       int    `json:"games"`
	Goals       int    `json:"goals"`
	Assists     int    `json:"assists"`
	Points      int    `json:"points"`
	Shots       int    `json:"shots"`
	Blocks      int    `json:"blocks"`
	PIM         int    `json:"pim"`
	ShootingPct string `json:"shooting_pct"`
}

type summaryResponse struct {
	TeamID   string      `json:"team_id"`
	TeamName string      `json:"team_name"`
	Season   string      `json:"season"`
	Skaters  []skaterRow `json:"skaters"`
	Goalies  []goalieRow `json:"goalies"`
	Team     teamRow     `json:"team"`
}

func seasonLabel(season string) string {
	if season == "" {
		return allSeasons
	}
	return season
}

func buildSummary(s *tracker.SeasonSummary) summaryResponse {
	out := summaryResponse{
		TeamID:   s.Team.ID.Hex(),
		TeamName: s.Team.Name,
		Season:   seasonLabel(s.Season),
		Skaters:  make([]skaterRow, 0, len(s.Summary.Skaters)),
		Goalies:  make([]goalieRow, 0, len(s.Summary.Goalies)),
	}
	for _, sk := range s.Summary.Skaters {
		out.Skaters = append(out.Skaters, skaterRow{
			PlayerID:    sk.Player.ID.Hex(),
			Name:        sk.Player.Name,
			Number:      sk.Player.Number,
			Position:    sk.Player.Position,
			GamesPlayed: sk.GamesPlayed,
			Goals:       sk.Goals,
			Assists:     sk.Assists,
			Points:      sk.Points(),
			Shots:       sk.Shots,
			Blocks:      sk.Blocks,
			PIM:         sk.PIM,
			ShootingPct: sk.ShootingPct().Percent(1),
		})
	}
	for _, g := range s.Summary.Goalies {
		out.Goalies = append(out.Goalies, goalieRow{
			PlayerID:     g.Player.ID.Hex(),
			Name:         g.Player.Name,
			Number:       g.Player.Number,
			GamesPlayed:  g.GamesPlayed,
			ShotsAgainst: g.ShotsAgainst,
			Saves:        g.Saves,
			GoalsAgainst: g.GoalsAgainst,
			SavePct:      g.SavePct().Fixed(3),
			GAA:          g.GAA().Fixed(2),
		})
	}
	t := s.Summary.Team
	out.Team = teamRow{
		Games:       t.Games,
		Goals:       t.Goals,
		Assists:     t.Assists,
		Points:      t.Points(),
		Shots:       t.Shots,
		Blocks:      t.Blocks,
		PIM:         t.PIM,
		ShootingPct: t.ShootingPct().Percent(1),
	}
	return out
}
