package teampolicy

import (
	"errors"
	"testing"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func membership(teamID primitive.ObjectID, role string, active bool) *models.Membership {
	return &models.Membership{
		ID:       primitive.NewObjectID(),
		TeamID:   teamID,
		UserID:   primitive.NewObjectID(),
		Role:     role,
		IsActive: active,
	}
}

func TestAllows_Staff(t *testing.T) {
	team := primitive.NewObjectID()
	m := membership(team, models.RoleStaff, true)

	for _, a := range append(MutatingActions, ViewTeam, ViewStats, ExportCSV, ViewAudit, ListMembers) {
		if !Allows(m, team, a) {
			t.Errorf("staff should be allowed %s", a)
		}
	}
}

func TestAllows_ViewerReadOnly(t *testing.T) {
	team := primitive.NewObjectID()
	m := membership(team, models.RoleViewer, true)

	for _, a := range []Action{ViewTeam, ViewStats, ExportCSV} {
		if !Allows(m, team, a) {
			t.Errorf("viewer should be allowed %s", a)
		}
	}
	for _, a := range append(MutatingActions, ViewAudit, ListMembers) {
		if Allows(m, team, a) {
			t.Errorf("viewer must not be allowed %s", a)
		}
	}
}

func TestAllows_NoRole(t *testing.T) {
	team := primitive.NewObjectID()
	tests := []struct {
		name string
		m    *models.Membership
	}{
		{"nil membership", nil},
		{"inactive staff", membership(team, models.RoleStaff, false)},
		{"staff of other team", membership(primitive.NewObjectID(), models.RoleStaff, true)},
		{"unknown role", membership(team, "coach", true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Allows(tt.m, team, ViewTeam) {
				t.Error("expected no access")
			}
			if RoleOf(tt.m, team) != "" {
				t.Errorf("RoleOf = %q, want empty", RoleOf(tt.m, team))
			}
		})
	}
}

func TestAuthorize_ReturnsForbidden(t *testing.T) {
	team := primitive.NewObjectID()
	err := Authorize(membership(team, models.RoleViewer, true), team, CreateGame)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Authorize() = %v, want forbidden", err)
	}
	if err.Error() != apperr.ForbiddenMsg {
		t.Errorf("message = %q, want %q", err.Error(), apperr.ForbiddenMsg)
	}
	if err := Authorize(membership(team, models.RoleStaff, true), team, CreateGame); err != nil {
		t.Errorf("staff Authorize() = %v", err)
	}
}

func TestCanPromote(t *testing.T) {
	team := primitive.NewObjectID()
	staff := membership(team, models.RoleStaff, true)
	viewer := membership(team, models.RoleViewer, true)

	tests := []struct {
		name          string
		actor, target *models.Membership
		want          bool
	}{
		{"staff promotes viewer", staff, viewer, true},
		{"viewer promotes viewer", viewer, viewer, false},
		{"staff promotes staff", staff, membership(team, models.RoleStaff, true), false},
		{"staff promotes inactive viewer", staff, membership(team, models.RoleViewer, false), false},
		{"staff promotes viewer of other team", staff, membership(primitive.NewObjectID(), models.RoleViewer, true), false},
		{"inactive staff", membership(team, models.RoleStaff, false), viewer, false},
		{"missing target", staff, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPromote(tt.actor, tt.target, team); got != tt.want {
				t.Errorf("CanPromote() = %v, want %v", got, tt.want)
			}
		})
	}
}
