// internal/app/system/csvutil/export.go
package csvutil

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/dalemusser/teamstats/internal/app/system/stats"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Row sections.
const (
	SectionGame   = "game"
	SectionSkater = "skater"
	SectionGoalie = "goalie"
)

// ExportColumns is the fixed header of the season export.
var ExportColumns = []string{
	"section", "game_id", "game_date", "season", "opponent", "venue", "workflow_status",
	"player_number", "player_name", "position",
	"goals", "assists", "points", "shots", "blocks", "pim",
	"shots_against", "saves", "goals_against", "save_pct",
}

// SeasonExport is everything one export needs. Games are written in the
// order given; Players should include inactive players so historical
// lines still resolve.
type SeasonExport struct {
	Games       []models.Game
	Players     []models.Player
	SkaterLines []models.SkaterLine
	GoalieLines []models.GoalieLine
}

// WriteSeason writes the header, then per game a game row followed by its
// skater rows and goalie rows, each ordered by jersey number. encoding/csv
// quotes cells holding commas, quotes or newlines and doubles inner quotes.
func WriteSeason(w io.Writer, exp SeasonExport) error {
	cw := csv.NewWriter(w)

	players := make(map[primitive.ObjectID]models.Player, len(exp.Players))
	for _, p := range exp.Players {
		players[p.ID] = p
	}
	skaters := make(map[primitive.ObjectID][]models.SkaterLine)
	for _, l := range exp.SkaterLines {
		skaters[l.GameID] = append(skaters[l.GameID], l)
	}
	goalies := make(map[primitive.ObjectID][]models.GoalieLine)
	for _, l := range exp.GoalieLines {
		goalies[l.GameID] = append(goalies[l.GameID], l)
	}

	if err := cw.Write(ExportColumns); err != nil {
		return err
	}

	for _, g := range exp.Games {
		if err := cw.Write(gameRow(g)); err != nil {
			return err
		}

		sl := skaters[g.ID]
		sort.SliceStable(sl, func(i, j int) bool {
			return lineLess(players, sl[i].PlayerID, sl[j].PlayerID)
		})
		for _, l := range sl {
			row := gameRow(g)
			row[0] = SectionSkater
			fillPlayer(row, players, l.PlayerID)
			t := stats.SkaterTotals{Goals: l.Goals, Assists: l.Assists, Shots: l.Shots, Blocks: l.Blocks, PIM: l.PIM}
			row[10] = strconv.Itoa(t.Goals)
			row[11] = strconv.Itoa(t.Assists)
			row[12] = strconv.Itoa(t.Points())
			row[13] = strconv.Itoa(t.Shots)
			row[14] = strconv.Itoa(t.Blocks)
			row[15] = strconv.Itoa(t.PIM)
			if err := cw.Write(row); err != nil {
				return err
			}
		}

		gl := goalies[g.ID]
		sort.SliceStable(gl, func(i, j int) bool {
			return lineLess(players, gl[i].PlayerID, gl[j].PlayerID)
		})
		for _, l := range gl {
			row := gameRow(g)
			row[0] = SectionGoalie
			fillPlayer(row, players, l.PlayerID)
			t := stats.GoalieTotals{ShotsAgainst: l.ShotsAgainst, Saves: l.Saves, GoalsAgainst: l.GoalsAgainst}
			row[16] = strconv.Itoa(t.ShotsAgainst)
			row[17] = strconv.Itoa(t.Saves)
			row[18] = strconv.Itoa(t.GoalsAgainst)
			row[19] = t.SavePct().Fixed(3)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func gameRow(g models.Game) []string {
	row := make([]string, len(ExportColumns))
	row[0] = SectionGame
	row[1] = g.ID.Hex()
	row[2] = g.Date
	row[3] = g.Season
	row[4] = g.Opponent
	row[5] = g.Venue
	row[6] = g.WorkflowStatus
	return row
}

func fillPlayer(row []string, players map[primitive.ObjectID]models.Player, id primitive.ObjectID) {
	p, ok := players[id]
	if !ok {
		return
	}
	row[7] = strconv.Itoa(p.Number)
	row[8] = p.Name
	row[9] = p.Position
}

func lineLess(players map[primitive.ObjectID]models.Player, a, b primitive.ObjectID) bool {
	pa, pb := players[a], players[b]
	if pa.Number != pb.Number {
		return pa.Number < pb.Number
	}
	return a.Hex() < b.Hex()
}
