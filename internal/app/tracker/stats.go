package tracker

import (
	"context"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/csvutil"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/stats"
	"github.com/dalemusser/teamstats/internal/app/system/workflow"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// StatInput carries a full stat line. Only the fields of the player's kind
// are used: skater counts for skaters, goalie counts for goalies.
type StatInput struct {
	Goals        int `json:"goals" validate:"min=0" label:"Goals"`
	Assists      int `json:"assists" validate:"min=0" label:"Assists"`
	Shots        int `json:"shots" validate:"min=0" label:"Shots"`
	Blocks       int `json:"blocks" validate:"min=0" label:"Blocks"`
	PIM          int `json:"pim" validate:"min=0" label:"Penalty minutes"`
	ShotsAgainst int `json:"shots_against" validate:"min=0" label:"Shots against"`
	Saves        int `json:"saves" validate:"min=0" label:"Saves"`
	GoalsAgainst int `json:"goals_against" validate:"min=0" label:"Goals against"`
}

// IncrementInput bumps one counter.
type IncrementInput struct {
	Field string `json:"field" validate:"required" label:"Field"`
	Delta int    `json:"delta" validate:"required,min=-10,max=10" label:"Delta"`
}

// StatLineView is a saved line of either kind.
type StatLineView struct {
	Kind   string             `json:"kind"`
	Skater *models.SkaterLine `json:"skater,omitempty"`
	Goalie *models.GoalieLine `json:"goalie,omitempty"`
}

// GameSheet is one game with a row per rostered player. Players without a
// line yet get a zero line; inactive players appear only if they have one.
type GameSheet struct {
	Game    *GameView   `json:"game"`
	Skaters []SkaterRow `json:"skaters"`
	Goalies []GoalieRow `json:"goalies"`
}

// SkaterRow pairs a player with their skater line for the game.
type SkaterRow struct {
	Player models.Player     `json:"player"`
	Line   models.SkaterLine `json:"line"`
}

// GoalieRow pairs a player with their goalie line for the game.
type GoalieRow struct {
	Player models.Player     `json:"player"`
	Line   models.GoalieLine `json:"line"`
}

// SeasonSummary is the aggregated season for a team.
type SeasonSummary struct {
	Team    *models.Team
	Season  string
	Summary stats.Summary
}

// SeasonExport is the data behind a season CSV.
type SeasonExport struct {
	Team   *models.Team
	Season string
	Data   csvutil.SeasonExport
}

func kindOf(p *models.Player) string {
	if p.IsGoalie() {
		return models.KindGoalie
	}
	return models.KindSkater
}

// editableGame loads a game and applies the workflow lock.
func (s *Service) editableGame(ctx context.Context, teamID, gameID primitive.ObjectID) (*models.Game, error) {
	g, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return nil, err
	}
	if err := workflow.GuardEdit(workflow.Status(g.WorkflowStatus)); err != nil {
		return nil, err
	}
	return g, nil
}

// GameSheet returns a game with the roster and each player's line.
func (s *Service) GameSheet(ctx context.Context, actorID, teamID, gameID primitive.ObjectID) (*GameSheet, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewStats); err != nil {
		return nil, err
	}
	game, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return nil, err
	}

	var (
		players []models.Player
		sk      []models.SkaterLine
		gl      []models.GoalieLine
	)
	ids := []primitive.ObjectID{gameID}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.repo.ListPlayers(gctx, teamID)
		return err
	})
	g.Go(func() (err error) {
		sk, err = s.repo.ListSkaterLines(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		gl, err = s.repo.ListGoalieLines(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	skByPlayer := make(map[primitive.ObjectID]models.SkaterLine, len(sk))
	for _, l := range sk {
		skByPlayer[l.PlayerID] = l
	}
	glByPlayer := make(map[primitive.ObjectID]models.GoalieLine, len(gl))
	for _, l := range gl {
		glByPlayer[l.PlayerID] = l
	}

	sheet := &GameSheet{Game: viewOf(game), Skaters: []SkaterRow{}, Goalies: []GoalieRow{}}
	for _, p := range players {
		// A line of the other kind survives a position change, so both
		// rows can appear for one player.
		if l, ok := skByPlayer[p.ID]; ok {
			sheet.Skaters = append(sheet.Skaters, SkaterRow{Player: p, Line: l})
		} else if p.IsActive && !p.IsGoalie() {
			sheet.Skaters = append(sheet.Skaters, SkaterRow{Player: p, Line: models.SkaterLine{TeamID: teamID, GameID: gameID, PlayerID: p.ID}})
		}
		if l, ok := glByPlayer[p.ID]; ok {
			sheet.Goalies = append(sheet.Goalies, GoalieRow{Player: p, Line: l})
		} else if p.IsActive && p.IsGoalie() {
			sheet.Goalies = append(sheet.Goalies, GoalieRow{Player: p, Line: models.GoalieLine{TeamID: teamID, GameID: gameID, PlayerID: p.ID}})
		}
	}
	return sheet, nil
}

// lockGame stamps the game inside the caller's transaction, failing if it
// has been finalized since editableGame looked at it.
func (s *Service) lockGame(ctx context.Context, gameID primitive.ObjectID) error {
	ok, err := s.repo.TouchEditableGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !ok {
		return workflow.GuardEdit(workflow.Finalized)
	}
	return nil
}

// SaveStatLine writes the player's full line for the game, creating it if
// needed. The line kind follows the player's position.
func (s *Service) SaveStatLine(ctx context.Context, actorID, teamID, gameID, playerID primitive.ObjectID, in StatInput) (*StatLineView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.UpsertStat); err != nil {
		return nil, err
	}
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	if _, err := s.editableGame(ctx, teamID, gameID); err != nil {
		return nil, err
	}
	p, err := s.loadPlayer(ctx, teamID, playerID)
	if err != nil {
		return nil, err
	}

	view := &StatLineView{Kind: kindOf(p)}
	err = s.repo.RunInTx(ctx, "save stat line", func(ctx context.Context) error {
		if err := s.lockGame(ctx, gameID); err != nil {
			return err
		}
		var err error
		if p.IsGoalie() {
			view.Goalie, err = s.repo.UpsertGoalieLine(ctx, models.GoalieLine{
				TeamID:       teamID,
				GameID:       gameID,
				PlayerID:     playerID,
				ShotsAgainst: in.ShotsAgainst,
				Saves:        in.Saves,
				GoalsAgainst: in.GoalsAgainst,
			})
			return err
		}
		view.Skater, err = s.repo.UpsertSkaterLine(ctx, models.SkaterLine{
			TeamID:   teamID,
			GameID:   gameID,
			PlayerID: playerID,
			Goals:    in.Goals,
			Assists:  in.Assists,
			Shots:    in.Shots,
			Blocks:   in.Blocks,
			PIM:      in.PIM,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	if view.Goalie != nil {
		s.audit.GoalieLineSaved(ctx, actorID, view.Goalie)
	} else {
		s.audit.SkaterLineSaved(ctx, actorID, view.Skater)
	}
	return view, nil
}

// IncrementStat atomically adds in.Delta to one counter of the player's
// line and returns the new value. Concurrent increments never lose an
// update, and a counter never drops below zero.
func (s *Service) IncrementStat(ctx context.Context, actorID, teamID, gameID, playerID primitive.ObjectID, in IncrementInput) (int, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.UpsertStat); err != nil {
		return 0, err
	}
	if err := inputval.Validate(in).Err(); err != nil {
		return 0, err
	}
	if _, err := s.editableGame(ctx, teamID, gameID); err != nil {
		return 0, err
	}
	p, err := s.loadPlayer(ctx, teamID, playerID)
	if err != nil {
		return 0, err
	}

	kind := kindOf(p)
	fields := models.SkaterFields
	if kind == models.KindGoalie {
		fields = models.GoalieFields
	}
	known := false
	for _, f := range fields {
		if f == in.Field {
			known = true
			break
		}
	}
	if !known {
		return 0, apperr.Validation("field", "not a "+kind+" stat: "+in.Field)
	}

	var v int
	err = s.repo.RunInTx(ctx, "increment stat", func(ctx context.Context) error {
		if err := s.lockGame(ctx, gameID); err != nil {
			return err
		}
		var err error
		v, err = s.repo.IncrementStat(ctx, kind, teamID, gameID, playerID, in.Field, in.Delta)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.audit.StatIncremented(ctx, actorID, teamID, gameID, playerID, kind, in.Field, in.Delta)
	return v, nil
}

// SeasonSummary aggregates the team's active roster over season ("" = the
// team's season, "all" = every season). The four reads run concurrently.
func (s *Service) SeasonSummary(ctx context.Context, actorID, teamID primitive.ObjectID, season string) (*SeasonSummary, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewStats); err != nil {
		return nil, err
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	season = s.seasonFilter(team, season)
	gameIDs, err := s.repo.ListGameIDsForSeason(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	in := stats.Input{GameIDs: gameIDs}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Skaters, err = s.repo.ListActivePlayers(gctx, teamID, SkatersOnly)
		return err
	})
	g.Go(func() (err error) {
		in.Goalies, err = s.repo.ListActivePlayers(gctx, teamID, GoaliesOnly)
		return err
	})
	g.Go(func() (err error) {
		in.SkaterLines, err = s.repo.ListSkaterLines(gctx, gameIDs)
		return err
	})
	g.Go(func() (err error) {
		in.GoalieLines, err = s.repo.ListGoalieLines(gctx, gameIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &SeasonSummary{Team: team, Season: season, Summary: stats.Aggregate(in)}, nil
}

// ExportSeason gathers a season's games, every player who may appear in its
// lines (inactive included) and the lines themselves.
func (s *Service) ExportSeason(ctx context.Context, actorID, teamID primitive.ObjectID, season string) (*SeasonExport, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ExportCSV); err != nil {
		return nil, err
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	season = s.seasonFilter(team, season)
	games, err := s.repo.ListGames(ctx, teamID, season)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(games))
	for i, gm := range games {
		ids[i] = gm.ID
	}

	exp := &SeasonExport{Team: team, Season: season, Data: csvutil.SeasonExport{Games: games}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		exp.Data.Players, err = s.repo.ListPlayers(gctx, teamID)
		return err
	})
	g.Go(func() (err error) {
		exp.Data.SkaterLines, err = s.repo.ListSkaterLines(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		exp.Data.GoalieLines, err = s.repo.ListGoalieLines(gctx, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return exp, nil
}
