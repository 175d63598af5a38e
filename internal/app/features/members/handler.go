// internal/app/features/members/handler.go
package members

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler is the feature-level handler for team members and invites.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// ServeList returns every member of the team with their role.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list members")
	defer cancel()
	members, err := h.Tracker.ListMembers(ctx, actorID, httpjson.IDParam(r, "teamID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"members": members})
}

// HandlePromote makes a viewer staff. Promoting existing staff is a no-op.
func (h *Handler) HandlePromote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "promote member")
	defer cancel()
	m, err := h.Tracker.Promote(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, m)
}

// HandleIssueInvite creates a single-use invite code for the team.
func (h *Handler) HandleIssueInvite(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "issue invite")
	defer cancel()
	ic, err := h.Tracker.IssueInvite(ctx, actorID, httpjson.IDParam(r, "teamID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Created(w, ic)
}
