package tracker

import (
	"context"

	"github.com/dalemusser/teamstats/internal/app/policy/teampolicy"
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/codes"
	"github.com/dalemusser/teamstats/internal/app/system/htmlsanitize"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/normalize"
	"github.com/dalemusser/teamstats/internal/app/system/paging"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ways a member joined, recorded in the audit entry.
const (
	ViaCreateTeam = "create_team"
	ViaJoinCode   = "join_code"
	ViaInvite     = "invite"
)

// SignupInput creates an account on a team. Exactly one of JoinCode and
// InviteCode must be set.
type SignupInput struct {
	DisplayName string `json:"display_name" validate:"required,max=100" label:"Display name"`
	Email       string `json:"email" validate:"omitempty,bareemail,max=254" label:"Email"`
	JoinCode    string `json:"join_code" validate:"max=32" label:"Join code"`
	InviteCode  string `json:"invite_code" validate:"max=32" label:"Invite code"`
}

// SignupResult is the new account and its viewer membership.
type SignupResult struct {
	User       *models.User       `json:"user"`
	Membership *models.Membership `json:"membership"`
	Team       *models.Team       `json:"team"`
}

// MemberView is a membership with the member's display name.
type MemberView struct {
	models.Membership
	DisplayName string `json:"display_name"`
}

// AuditPage is one page of the audit log, newest first.
type AuditPage struct {
	Entries    []models.AuditEntry `json:"entries"`
	NextCursor string              `json:"next_cursor,omitempty"`
}

// Signup creates a user and a viewer membership on the team named by the
// join code or invite code. The writes commit together; an invite is
// consumed exactly once.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	in.DisplayName = htmlsanitize.PlainText(normalize.Name(in.DisplayName))
	in.Email = normalize.Email(in.Email)
	in.JoinCode = normalize.Code(in.JoinCode)
	in.InviteCode = normalize.Code(in.InviteCode)
	if err := inputval.Validate(in).Err(); err != nil {
		return nil, err
	}
	if (in.JoinCode == "") == (in.InviteCode == "") {
		return nil, apperr.Validation("code", "provide either a join code or an invite code")
	}
	via := ViaJoinCode
	if in.InviteCode != "" {
		via = ViaInvite
	}

	var res *SignupResult
	err := s.repo.RunInTx(ctx, "signup", func(ctx context.Context) error {
		u, err := s.repo.CreateUser(ctx, models.User{DisplayName: in.DisplayName, Email: in.Email})
		if err != nil {
			return err
		}

		var teamID primitive.ObjectID
		if via == ViaInvite {
			ic, err := s.repo.ConsumeInviteCode(ctx, in.InviteCode, u.ID)
			if err != nil {
				return err
			}
			teamID = ic.TeamID
		} else {
			t, err := s.repo.FindTeamByJoinCode(ctx, in.JoinCode)
			if apperr.KindOf(err) == apperr.KindNotFound {
				return apperr.Validation("join_code", "join code is invalid")
			}
			if err != nil {
				return err
			}
			teamID = t.ID
		}

		m, err := s.repo.CreateMembership(ctx, teamID, u.ID, models.RoleViewer)
		if err != nil {
			return err
		}
		res = &SignupResult{User: u, Membership: m}
		return nil
	})
	if err != nil {
		return nil, err
	}

	t, err := s.repo.GetTeam(ctx, res.Membership.TeamID)
	if err != nil {
		return nil, err
	}
	t.JoinCode = ""
	res.Team = t
	s.audit.MemberJoined(ctx, res.Membership, via)
	return res, nil
}

// ListMembers returns the team's active members, oldest first.
func (s *Service) ListMembers(ctx context.Context, actorID, teamID primitive.ObjectID) ([]MemberView, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ListMembers); err != nil {
		return nil, err
	}
	ms, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(ms))
	for i, m := range ms {
		ids[i] = m.UserID
	}
	users, err := s.repo.GetUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.DisplayName
	}

	out := make([]MemberView, len(ms))
	for i, m := range ms {
		out[i] = MemberView{Membership: m, DisplayName: names[m.UserID]}
	}
	return out, nil
}

// Promote makes an active viewer of the team staff. Promoting someone who
// is already staff succeeds without a change.
func (s *Service) Promote(ctx context.Context, actorID, teamID, userID primitive.ObjectID) (*models.Membership, error) {
	actor, err := s.gate(ctx, actorID, teamID, teampolicy.PromoteMember)
	if err != nil {
		return nil, err
	}
	target, err := s.repo.ActiveMembership(ctx, userID, teamID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("member")
	}
	if target.Role == models.RoleStaff {
		return target, nil
	}
	if !teampolicy.CanPromote(actor, target, teamID) {
		return nil, apperr.Forbidden()
	}

	m, err := s.repo.PromoteMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	s.audit.MemberPromoted(ctx, actorID, m)
	return m, nil
}

// IssueInvite creates a single-use invite code for the team.
func (s *Service) IssueInvite(ctx context.Context, actorID, teamID primitive.ObjectID) (*models.InviteCode, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.IssueInvite); err != nil {
		return nil, err
	}
	var ic *models.InviteCode
	_, err := codes.Generate(ctx, s.codeAttempts, codes.InviteCode, func(ctx context.Context, code string) error {
		created, err := s.repo.CreateInviteCode(ctx, teamID, actorID, code)
		if err != nil {
			return err
		}
		ic = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.audit.InviteIssued(ctx, actorID, ic)
	return ic, nil
}

// ListAudit returns a page of the team's audit log. before is the cursor
// from the previous page, or zero for the newest entries.
func (s *Service) ListAudit(ctx context.Context, actorID, teamID, before primitive.ObjectID, limit int) (*AuditPage, error) {
	if _, err := s.gate(ctx, actorID, teamID, teampolicy.ViewAudit); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = paging.PageSize
	}
	if limit > paging.MaxPageSize {
		limit = paging.MaxPageSize
	}
	rows, err := s.repo.ListAudit(ctx, teamID, before, limit+1)
	if err != nil {
		return nil, err
	}
	more := paging.TrimPage(&rows, limit)
	return &AuditPage{
		Entries:    rows,
		NextCursor: paging.NextCursor(rows, more, func(e models.AuditEntry) primitive.ObjectID { return e.ID }),
	}, nil
}
