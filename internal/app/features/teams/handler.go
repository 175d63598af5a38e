// internal/app/features/teams/handler.go
package teams

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves team creation and team settings.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler creates a new teams handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// HandleCreate creates a team. The caller becomes its first staff member.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.TeamInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "create team")
	defer cancel()
	team, err := h.Tracker.CreateTeam(ctx, actorID, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Created(w, team)
}

// ServeTeam returns one team. The join code is only present for staff.
func (h *Handler) ServeTeam(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get team")
	defer cancel()
	team, err := h.Tracker.GetTeam(ctx, actorID, httpjson.IDParam(r, "teamID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, team)
}

// HandleUpdateSeason changes the team's current season label.
func (h *Handler) HandleUpdateSeason(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.SeasonInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update season")
	defer cancel()
	team, err := h.Tracker.UpdateSeason(ctx, actorID, httpjson.IDParam(r, "teamID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, team)
}

// ServeSeasons lists the season labels the team has games in, plus its
// current one.
func (h *Handler) ServeSeasons(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list seasons")
	defer cancel()
	seasons, err := h.Tracker.ListSeasons(ctx, actorID, httpjson.IDParam(r, "teamID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"seasons": seasons})
}
