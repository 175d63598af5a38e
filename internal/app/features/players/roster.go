// internal/app/features/players/roster.go
package players

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList returns the active roster ordered by number. Pass
// ?inactive=true to include players no longer on the team.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list players")
	defer cancel()
	players, err := h.Tracker.ListPlayers(ctx, actorID, httpjson.IDParam(r, "teamID"), inputval.Bool(query.Get(r, "inactive")))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"players": players})
}

// HandleCreate adds a player to the roster.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.PlayerInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create player")
	defer cancel()
	p, err := h.Tracker.CreatePlayer(ctx, actorID, httpjson.IDParam(r, "teamID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Created(w, p)
}

// HandleUpdate replaces a player's name, number, position and active flag.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.PlayerInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update player")
	defer cancel()
	p, err := h.Tracker.UpdatePlayer(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "playerID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, p)
}
