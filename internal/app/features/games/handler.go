// internal/app/features/games/handler.go
package games

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/system/workflow"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Handler serves game metadata and the game workflow.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler creates a new games handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// ServeList returns the team's games in date order. ?season= selects a
// season label; "all" returns every season, blank the team's current one.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list games")
	defer cancel()
	games, err := h.Tracker.ListGames(ctx, actorID, httpjson.IDParam(r, "teamID"), query.Get(r, "season"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"games": games})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.GameInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create game")
	defer cancel()
	g, err := h.Tracker.CreateGame(ctx, actorID, httpjson.IDParam(r, "teamID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.Created(w, g)
}

func (h *Handler) ServeGame(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get game")
	defer cancel()
	g, err := h.Tracker.GetGame(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, g)
}

// HandleUpdate replaces a game's metadata. Finalized games are locked.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.GameInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update game")
	defer cancel()
	g, err := h.Tracker.UpdateGame(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, g)
}

// HandleDelete removes a game together with its stat lines.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete game")
	defer cancel()
	if err := h.Tracker.DeleteGame(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID")); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.NoContent(w)
}

// transition returns a handler applying one workflow action.
func (h *Handler) transition(action workflow.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := auth.Actor(w, r)
		if !ok {
			return
		}

		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, string(action)+" game")
		defer cancel()
		g, err := h.Tracker.Transition(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"), action)
		if err != nil {
			httpjson.Error(w, h.Log, err)
			return
		}
		httpjson.OK(w, g)
	}
}
