// Package teampolicy provides the authorization policy for team data.
//
// Authorization rules:
//   - Staff can perform every action on their own team
//   - Viewers can read team data (roster, games, stats, CSV export) and nothing else
//   - An inactive membership, or none at all, grants nothing
//   - A membership only ever applies to its own team
//
// The membership passed in must be fetched fresh for the request that is
// being authorized. Roles are never taken from the client.
package teampolicy

import (
	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names a gated operation.
type Action string

// Read actions.
const (
	ViewTeam  Action = "view_team"
	ViewStats Action = "view_stats"
	ExportCSV Action = "export_csv"
)

// Mutating and staff-only actions.
const (
	CreateGame     Action = "create_game"
	EditGame       Action = "edit_game"
	DeleteGame     Action = "delete_game"
	TransitionGame Action = "transition_game"
	CreatePlayer   Action = "create_player"
	EditPlayer     Action = "edit_player"
	UpsertStat     Action = "upsert_stat"
	UpdateSeason   Action = "update_season"
	ListMembers    Action = "list_members"
	PromoteMember  Action = "promote_member"
	IssueInvite    Action = "issue_invite"
	ViewAudit      Action = "view_audit"
)

var readActions = map[Action]bool{
	ViewTeam:  true,
	ViewStats: true,
	ExportCSV: true,
}

// MutatingActions lists every action that changes state.
var MutatingActions = []Action{
	CreateGame, EditGame, DeleteGame, TransitionGame,
	CreatePlayer, EditPlayer, UpsertStat, UpdateSeason,
	PromoteMember, IssueInvite,
}

// RoleOf returns the effective role of m for teamID, or "" when m grants
// nothing there.
func RoleOf(m *models.Membership, teamID primitive.ObjectID) string {
	if m == nil || !m.IsActive || m.TeamID != teamID {
		return ""
	}
	switch m.Role {
	case models.RoleStaff, models.RoleViewer:
		return m.Role
	}
	return ""
}

// Allows reports whether m may perform a on teamID.
func Allows(m *models.Membership, teamID primitive.ObjectID, a Action) bool {
	switch RoleOf(m, teamID) {
	case models.RoleStaff:
		return true
	case models.RoleViewer:
		return readActions[a]
	default:
		return false
	}
}

// Authorize is Allows as an error: nil, or a PermissionError that does not
// reveal whether the team or resource exists.
func Authorize(m *models.Membership, teamID primitive.ObjectID, a Action) error {
	if Allows(m, teamID, a) {
		return nil
	}
	return apperr.Forbidden()
}

// CanEdit reports whether m's role may edit team data at all. It is the
// role half of the workflow edit gate.
func CanEdit(m *models.Membership, teamID primitive.ObjectID) bool {
	return RoleOf(m, teamID) == models.RoleStaff
}

// CanPromote reports whether actor may promote target to staff: the actor
// must be active staff of the team and the target an active viewer of the
// same team. Promotion is one-way.
func CanPromote(actor, target *models.Membership, teamID primitive.ObjectID) bool {
	return RoleOf(actor, teamID) == models.RoleStaff && RoleOf(target, teamID) == models.RoleViewer
}
