package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/csvutil"
	"github.com/dalemusser/teamstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/normalize"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DuplicateNumberMsg is the conflict message for a jersey number already
// worn by an active teammate.
const DuplicateNumberMsg = "duplicate number"

// PlayerInput creates or replaces a roster entry. IsActive defaults to true
// on create and to the current value on update.
type PlayerInput struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Number   int    `json:"number" validate:"jersey" label:"Number"`
	Position string `json:"position" validate:"required,position" label:"Position"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (in *PlayerInput) normalize() {
	in.Name = htmlsanitize.PlainText(normalize.Name(in.Name))
	in.Position = normalize.Position(in.Position)
}

// ImportResult reports a roster import. Skipped rows were valid but their
// number is already worn by an active player.
type ImportResult struct {
	Created []models.Player    `json:"created"`
	Skipped []csvutil.RowError `json:"skipped"`
}

// ListPlayers returns the roster; inactive players only when asked.
func (s *Service) ListPlayers(ctx context.Context, actorID, teamID primitive.ObjectID, includeInactive bool) ([]models.Player, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewTeam); err != nil {
		return nil, err
	}
	if includeInactive {
		return s.repo.ListPlayers(ctx, teamID)
	}
	return s.repo.ListActivePlayers(ctx, teamID, AllPositions)
}

// checkNumber rejects a number worn by another active player of the team.
func (s *Service) checkNumber(ctx context.Context, teamID primitive.ObjectID, number int, except primitive.ObjectID) error {
	taken, err := s.repo.ActiveNumberTaken(ctx, teamID, number, except)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict(DuplicateNumberMsg)
	}
	return nil
}

// CreatePlayer adds a player to the roster.
func (s *Service) CreatePlayer(ctx context.Context, actorID, teamID primitive.ObjectID, in PlayerInput) (*models.Player, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.CreatePlayer); err != nil {
		return nil, err
	}
	in.normalize()
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	active := in.IsActive == nil || *in.IsActive
	if active {
		if err := s.checkNumber(ctx, teamID, in.Number, primitive.NilObjectID); err != nil {
			return nil, err
		}
	}

	p, err := s.repo.CreatePlayer(ctx, models.Player{
		TeamID:   teamID,
		Name:     in.Name,
		Number:   in.Number,
		Position: in.Position,
		IsActive: active,
	})
	if err != nil {
		return nil, err
	}
	s.audit.PlayerCreated(ctx, actorID, p)
	return p, nil
}

// UpdatePlayer replaces a player's name, number, position and active flag.
// Reactivating a player re-checks the number.
func (s *Service) UpdatePlayer(ctx context.Context, actorID, teamID, playerID primitive.ObjectID, in PlayerInput) (*models.Player, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.EditPlayer); err != nil {
		return nil, err
	}
	cur, err := s.loadPlayer(ctx, teamID, playerID)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	active := cur.IsActive
	if in.IsActive != nil {
		active = *in.IsActive
	}
	if active {
		if err := s.checkNumber(ctx, teamID, in.Number, playerID); err != nil {
			return nil, err
		}
	}

	next := *cur
	next.Name = in.Name
	next.Number = in.Number
	next.Position = in.Position
	next.IsActive = active
	p, err := s.repo.UpdatePlayer(ctx, next)
	if err != nil {
		return nil, err
	}
	s.audit.PlayerUpdated(ctx, actorID, p)
	return p, nil
}

// CanImportRoster reports whether the actor may import into the team, so
// an upload can be refused before its body is read.
func (s *Service) CanImportRoster(ctx context.Context, actorID, teamID primitive.ObjectID) error {
	_, err := s.gate(ctx, actorID, teamID, teampolicy.CreatePlayer)
	return err
}

// ImportRoster adds every player in a roster CSV (name, number, position).
// A file with any malformed row is rejected whole; rows whose number is
// already taken are skipped and reported.
func (s *Service) ImportRoster(ctx context.Context, actorID, teamID primitive.ObjectID, r io.Reader) (*ImportResult, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.CreatePlayer); err != nil {
		return nil, err
	}
	parsed, err := csvutil.ParseRosterCSV(r, csvutil.ParseOptions{MaxRows: csvutil.MaxRows})
	if errors.Is(err, csvutil.ErrTooManyRows) {
		return nil, apperr.Validation("file", fmt.Sprintf("roster has more than %d rows", csvutil.MaxRows))
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return nil, ae
	}
	if err != nil {
		return nil, apperr.Validation("file", "could not read CSV: "+err.Error())
	}
	if parsed.HasErrors() {
		return nil, apperr.Validation("file", parsed.Summary(5))
	}
	if len(parsed.Rows) == 0 {
		return nil, apperr.Validation("file", "roster file has no players")
	}

	res := &ImportResult{Created: []models.Player{}, Skipped: []csvutil.RowError{}}
	for _, row := range parsed.Rows {
		skip := csvutil.RowError{
			Line:   row.Line,
			Reason: DuplicateNumberMsg,
			Raw:    []string{row.Name, fmt.Sprint(row.Number), row.Position},
		}
		if err := s.checkNumber(ctx, teamID, row.Number, primitive.NilObjectID); err != nil {
			if apperr.KindOf(err) == apperr.KindConflict {
				res.Skipped = append(res.Skipped, skip)
				continue
			}
			return res, err
		}
		p, err := s.repo.CreatePlayer(ctx, models.Player{
			TeamID:   teamID,
			Name:     row.Name,
			Number:   row.Number,
			Position: row.Position,
			IsActive: true,
		})
		if apperr.KindOf(err) == apperr.KindConflict {
			res.Skipped = append(res.Skipped, skip)
			continue
		}
		if err != nil {
			return res, err
		}
		s.audit.PlayerCreated(ctx, actorID, p)
		res.Created = append(res.Created, *p)
	}
	return res, nil
}
