package tracker

import (
	"context"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/normalize"
	"github.com/dalemusser/teamstats/internal/app/system/workflow"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GameInput creates or replaces game metadata. An empty Season means the
// team's current season.
type GameInput struct {
	Date         string `json:"date" validate:"required,isodate" label:"Date"`
	Opponent     string `json:"opponent" validate:"required,max=100" label:"Opponent"`
	Venue        string `json:"venue" validate:"max=100" label:"Venue"`
	PeriodLength int    `json:"period_length" validate:"periodlength" label:"Period length"`
	HasOvertime  bool   `json:"has_overtime"`
	Season       string `json:"season" validate:"max=20" label:"Season"`
}

func (in *GameInput) normalize() {
	in.Date = normalize.QueryParam(in.Date)
	in.Opponent = htmlsanitize.PlainText(normalize.Name(in.Opponent))
	in.Venue = htmlsanitize.PlainText(normalize.Name(in.Venue))
	in.Season = normalize.Season(in.Season)
}

// GameView is a game with the one workflow action currently offered.
type GameView struct {
	models.Game
	OfferedAction workflow.Action `json:"offered_action"`
	Locked        bool            `json:"locked"`
}

func viewOf(g *models.Game) *GameView {
	st := workflow.Status(g.WorkflowStatus)
	return &GameView{Game: *g, OfferedAction: workflow.OfferedAction(st), Locked: workflow.IsLocked(st)}
}

// ListGames returns the team's games for season in date order. An empty
// season means the team's current season; "all" means every season.
func (s *Service) ListGames(ctx context.Context, actorID, teamID primitive.ObjectID, season string) ([]models.Game, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewTeam); err != nil {
		return nil, err
	}
	season, err := s.resolveSeason(ctx, teamID, season)
	if err != nil {
		return nil, err
	}
	return s.repo.ListGames(ctx, teamID, season)
}

// resolveSeason turns a season query into the store filter: "" becomes the
// team's season, "all" becomes no filter.
func (s *Service) resolveSeason(ctx context.Context, teamID primitive.ObjectID, raw string) (string, error) {
	if raw = normalize.QueryParam(raw); raw != "" {
		return normalize.Season(raw), nil
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return "", err
	}
	return s.seasonFilter(team, raw), nil
}

func (s *Service) seasonFilter(team *models.Team, raw string) string {
	if raw = normalize.QueryParam(raw); raw != "" {
		return normalize.Season(raw)
	}
	return s.teamSeason(team, "")
}

// GetGame returns one game.
func (s *Service) GetGame(ctx context.Context, actorID, teamID, gameID primitive.ObjectID) (*GameView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewTeam); err != nil {
		return nil, err
	}
	g, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return nil, err
	}
	return viewOf(g), nil
}

// CreateGame schedules a draft game.
func (s *Service) CreateGame(ctx context.Context, actorID, teamID primitive.ObjectID, in GameInput) (*GameView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.CreateGame); err != nil {
		return nil, err
	}
	in.normalize()
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	if in.Season == "" {
		team, err := s.repo.GetTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		in.Season = s.teamSeason(team, "")
	}

	g, err := s.repo.CreateGame(ctx, models.Game{
		TeamID:         teamID,
		Date:           in.Date,
		Opponent:       in.Opponent,
		Venue:          in.Venue,
		PeriodLength:   in.PeriodLength,
		HasOvertime:    in.HasOvertime,
		Season:         in.Season,
		WorkflowStatus: models.GameDraft,
	})
	if err != nil {
		return nil, err
	}
	s.audit.GameCreated(ctx, actorID, g)
	return viewOf(g), nil
}

// UpdateGame replaces a game's metadata. Finalized games are locked.
func (s *Service) UpdateGame(ctx context.Context, actorID, teamID, gameID primitive.ObjectID, in GameInput) (*GameView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.EditGame); err != nil {
		return nil, err
	}
	cur, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return nil, err
	}
	if err := workflow.GuardEdit(workflow.Status(cur.WorkflowStatus)); err != nil {
		return nil, err
	}
	in.normalize()
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}

	next := *cur
	next.Date = in.Date
	next.Opponent = in.Opponent
	next.Venue = in.Venue
	next.PeriodLength = in.PeriodLength
	next.HasOvertime = in.HasOvertime
	if in.Season != "" {
		next.Season = in.Season
	}
	g, err := s.repo.UpdateGame(ctx, next)
	if err != nil {
		return nil, err
	}
	s.audit.GameUpdated(ctx, actorID, g)
	return viewOf(g), nil
}

// DeleteGame removes an unlocked game and its stat lines.
func (s *Service) DeleteGame(ctx context.Context, actorID, teamID, gameID primitive.ObjectID) error {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.DeleteGame); err != nil {
		return err
	}
	g, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return err
	}
	if err := workflow.GuardEdit(workflow.Status(g.WorkflowStatus)); err != nil {
		return err
	}
	removed, err := s.repo.DeleteGame(ctx, gameID)
	if err != nil {
		return err
	}
	s.audit.GameDeleted(ctx, actorID, g, removed)
	return nil
}

// Transition applies a workflow action. Finalizing needs at least one stat
// line; re-opening only flips the status.
func (s *Service) Transition(ctx context.Context, actorID, teamID, gameID primitive.ObjectID, action workflow.Action) (*GameView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.TransitionGame); err != nil {
		return nil, err
	}
	g, err := s.loadGame(ctx, teamID, gameID)
	if err != nil {
		return nil, err
	}
	from, _ := workflow.Parse(g.WorkflowStatus)

	hasStats := false
	if action == workflow.Finalize {
		n, err := s.repo.CountStatLines(ctx, gameID)
		if err != nil {
			return nil, err
		}
		hasStats = n > 0
	}
	to, err := workflow.Transition(from, action, hasStats)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateGameWorkflowStatus(ctx, gameID, g.WorkflowStatus, string(to)); err != nil {
		return nil, err
	}

	prev := g.WorkflowStatus
	g.WorkflowStatus = string(to)
	s.audit.GameTransitioned(ctx, actorID, g, prev)
	return viewOf(g), nil
}
