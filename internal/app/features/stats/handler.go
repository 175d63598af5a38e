// internal/app/features/stats/handler.go
package stats

import (
	"mime"
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/inputval"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves per-game stat entry.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler creates a new stats handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// ServeSheet returns the game with every saved skater and goalie line.
func (h *Handler) ServeSheet(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "game sheet")
	defer cancel()
	sheet, err := h.Tracker.GameSheet(ctx, actorID, httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, sheet)
}

// HandleSave writes a player's full line for the game.
//
// A JSON body is taken as typed; negative counts are rejected. A form post
// coerces each cell instead: blank, non-numeric and negative values all
// become 0, matching a stat sheet where untouched cells mean zero.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	in, err := decodeStatInput(r)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "save stat line")
	defer cancel()
	line, err := h.Tracker.SaveStatLine(ctx, actorID,
		httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"), httpjson.IDParam(r, "playerID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, line)
}

// HandleIncrement bumps one counter by a small delta and returns its new
// value. It is the live-entry path: concurrent taps never lose a count.
//
// Request body:
//
//	{ "field": "goals", "delta": 1 }
func (h *Handler) HandleIncrement(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	var in tracker.IncrementInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "increment stat")
	defer cancel()
	v, err := h.Tracker.IncrementStat(ctx, actorID,
		httpjson.IDParam(r, "teamID"), httpjson.IDParam(r, "gameID"), httpjson.IDParam(r, "playerID"), in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, map[string]any{"field": in.Field, "value": v})
}

func decodeStatInput(r *http.Request) (tracker.StatInput, error) {
	var in tracker.StatInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		err := httpjson.Decode(r, &in)
		return in, err
	}

	if err := r.ParseForm(); err != nil {
		return in, apperr.Validation("body", "malformed form")
	}
	in = tracker.StatInput{
		Goals:        inputval.Count(r.PostFormValue("goals")),
		Assists:      inputval.Count(r.PostFormValue("assists")),
		Shots:        inputval.Count(r.PostFormValue("shots")),
		Blocks:       inputval.Count(r.PostFormValue("blocks")),
		PIM:          inputval.Count(r.PostFormValue("pim")),
		ShotsAgainst: inputval.Count(r.PostFormValue("shots_against")),
		Saves:        inputval.Count(r.PostFormValue("saves")),
		GoalsAgainst: inputval.Count(r.PostFormValue("goals_against")),
	}
	return in, nil
}
