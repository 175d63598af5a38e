// Package tracker orchestrates every team operation.
//
// Each mutation runs the same pipeline: fetch the actor's membership for
// the target team, check it with teampolicy, validate input, apply the
// workflow lock for game-scoped edits, write through the Repository, then
// record an audit entry. Reads use the same gate with read actions.
package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/auditlog"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"github.com/jonboulle/clockwork"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Config tunes the Service.
type Config struct {
	// CodeAttempts bounds join and invite code generation.
	CodeAttempts int
	// DefaultSeason is used for teams without a season label. Empty means
	// derive one from the clock.
	DefaultSeason string
}

// Service is the tracker. It is safe for concurrent use; it holds no
// per-request state.
type Service struct {
	repo          Repository
	log           *zap.Logger
	clock         clockwork.Clock
	audit         *auditlog.Logger
	codeAttempts  int
	defaultSeason string
}

// New returns a Service. A nil clock means the real clock; a nil audit
// logger records nothing.
func New(repo Repository, log *zap.Logger, clock clockwork.Clock, audit *auditlog.Logger, cfg Config) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	attempts := cfg.CodeAttempts
	if attempts <= 0 {
		attempts = codes.DefaultAttempts
	}
	return &Service{
		repo:          repo,
		log:           log,
		clock:         clock,
		audit:         audit,
		codeAttempts:  attempts,
		defaultSeason: cfg.DefaultSeason,
	}
}

// gate fetches the actor's membership on teamID fresh and authorizes a.
func (s *Service) gate(ctx context.Context, actorID, teamID primitive.ObjectID, a teampolicy.Action) (*models.Membership, error) {
	m, err := s.repo.ActiveMembership(ctx, actorID, teamID)
	if err != nil {
		return nil, err
	}
	if err := teampolicy.Authorize(m, teamID, a); err != nil {
		s.log.Debug("role gate rejected",
			zap.String("actor_id", actorID.Hex()),
			zap.String("team_id", teamID.Hex()),
			zap.String("action", string(a)))
		return nil, err
	}
	return m, nil
}

// SeasonFor returns the hockey season label containing t. Seasons start in
// August: 2024-10-05 and 2025-03-01 are both "2024-25".
func SeasonFor(t time.Time) string {
	y := t.Year()
	if t.Month() < time.August {
		y--
	}
	return fmt.Sprintf("%d-%02d", y, (y+1)%100)
}

// currentSeason is the season new teams and unlabeled teams default to.
func (s *Service) currentSeason() string {
	if s.defaultSeason != "" {
		return s.defaultSeason
	}
	return SeasonFor(s.clock.Now())
}

// teamSeason resolves the season a request refers to: the requested label,
// or the team's label, or the current season.
func (s *Service) teamSeason(team *models.Team, requested string) string {
	if requested != "" {
		return requested
	}
	if team.SeasonLabel != "" {
		return team.SeasonLabel
	}
	return s.currentSeason()
}

// loadGame fetches a game and hides games of other teams as not found.
func (s *Service) loadGame(ctx context.Context, teamID, gameID primitive.ObjectID) (*models.Game, error) {
	g, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.TeamID != teamID {
		return nil, apperr.NotFound("game")
	}
	return g, nil
}

// loadPlayer fetches a player and hides players of other teams as not found.
func (s *Service) loadPlayer(ctx context.Context, teamID, playerID primitive.ObjectID) (*models.Player, error) {
	p, err := s.repo.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if p.TeamID != teamID {
		return nil, apperr.NotFound("player")
	}
	return p, nil
}
