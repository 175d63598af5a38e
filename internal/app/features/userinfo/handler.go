// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's landing data.
type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler creates a new userinfo handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// ServeMe returns the current user with their primary membership and team.
//
// Response format:
//
//	{ "user": {...}, "membership": {...}, "team": {...} }
//
// membership and team are omitted for a user who belongs to no team.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r)
	if err != nil {
		httpjson.Unauthorized(w)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "me")
	defer cancel()
	me, err := h.Tracker.Me(ctx, userID)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, me)
}
