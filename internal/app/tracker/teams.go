package tracker

import (
	"context"
	"sort"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/normalize"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TeamInput creates a team.
type TeamInput struct {
	Name        string `json:"name" validate:"required,max=100" label:"Team name"`
	SeasonLabel string `json:"season_label" validate:"max=20" label:"Season"`
}

// SeasonInput changes a team's season label.
type SeasonInput struct {
	SeasonLabel string `json:"season_label" validate:"required,max=20" label:"Season"`
}

// MeView is the signed-in user's landing data. Membership and Team are nil
// for a user without a team.
type MeView struct {
	User       *models.User       `json:"user"`
	Membership *models.Membership `json:"membership,omitempty"`
	Team       *models.Team       `json:"team,omitempty"`
}

// Me returns the user with their primary membership and its team. The
// join code is only included for staff.
func (s *Service) Me(ctx context.Context, userID primitive.ObjectID) (*MeView, error) {
	u, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &MeView{User: u}
	m, err := s.repo.PrimaryMembership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return view, nil
	}
	t, err := s.repo.GetTeam(ctx, m.TeamID)
	if err != nil {
		return nil, err
	}
	if !teampolicy.CanEdit(m, t.ID) {
		t.JoinCode = ""
	}
	view.Membership = m
	view.Team = t
	return view, nil
}

// CreateTeam creates a team with a fresh join code and makes the actor its
// first staff member.
func (s *Service) CreateTeam(ctx context.Context, actorID primitive.ObjectID, in TeamInput) (*models.Team, error) {
	in.Name = htmlsanitize.PlainText(normalize.Name(in.Name))
	in.SeasonLabel = normalize.Season(in.SeasonLabel)
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	if in.SeasonLabel == "" {
		in.SeasonLabel = s.currentSeason()
	}

	var team *models.Team
	_, err := codes.Generate(ctx, s.codeAttempts, codes.JoinCode, func(ctx context.Context, code string) error {
		t, err := s.repo.CreateTeam(ctx, models.Team{
			Name:        in.Name,
			JoinCode:    code,
			SeasonLabel: in.SeasonLabel,
			CreatedBy:   actorID,
		})
		if err != nil {
			return err
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The code loop cannot share a transaction with the membership insert
	// (a duplicate key aborts it), so a failed insert removes the team.
	m, err := s.repo.CreateMembership(ctx, team.ID, actorID, models.RoleStaff)
	if err != nil {
		if derr := s.repo.DeleteTeam(context.WithoutCancel(ctx), team.ID); derr != nil {
			s.log.Error("team left without staff membership",
				zap.String("team_id", team.ID.Hex()),
				zap.String("user_id", actorID.Hex()),
				zap.Error(err),
				zap.NamedError("cleanup_error", derr))
		}
		return nil, err
	}

	s.audit.TeamCreated(ctx, actorID, team)
	s.audit.MemberJoined(ctx, m, ViaCreateTeam)
	return team, nil
}

// GetTeam returns the team. The join code is only shown to staff.
func (s *Service) GetTeam(ctx context.Context, actorID, teamID primitive.ObjectID) (*models.Team, error) {
	m, err := s.gate(ctx, actorID, teamID, teampolicy.ViewTeam)
	if err != nil {
		return nil, err
	}
	t, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !teampolicy.CanEdit(m, teamID) {
		t.JoinCode = ""
	}
	return t, nil
}

// UpdateSeason sets the team's default season label.
func (s *Service) UpdateSeason(ctx context.Context, actorID, teamID primitive.ObjectID, in SeasonInput) (*models.Team, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.UpdateSeason); err != nil {
		return nil, err
	}
	in.SeasonLabel = normalize.Season(in.SeasonLabel)
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateTeamSeason(ctx, teamID, in.SeasonLabel); err != nil {
		return nil, err
	}
	s.audit.SeasonUpdated(ctx, actorID, teamID, in.SeasonLabel)
	return s.repo.GetTeam(ctx, teamID)
}

// ListSeasons returns every season the team has games in, plus its current
// label, sorted.
func (s *Service) ListSeasons(ctx context.Context, actorID, teamID primitive.ObjectID) ([]string, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewTeam); err != nil {
		return nil, err
	}
	team, err := s.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	seasons, err := s.repo.ListSeasons(ctx, teamID)
	if err != nil {
		return nil, err
	}
	current := s.teamSeason(team, "")
	for _, v := range seasons {
		if v == current {
			return seasons, nil
		}
	}
	out := append([]string{current}, seasons...)
	sort.Strings(out)
	return out, nil
}
