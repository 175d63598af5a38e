// internal/app/features/session/handler.go
package session

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/apperr"
	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler signs users in and out. Identity is established elsewhere; when
// TrustLogin is set the caller is trusted to name the user id, which is
// how an upstream identity proxy (or a test) hands over a user.
type Handler struct {
	Tracker    *tracker.Service
	Sessions   *auth.SessionManager
	TrustLogin bool
	Log        *zap.Logger
}

func NewHandler(svc *tracker.Service, sm *auth.SessionManager, trustLogin bool, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Sessions: sm, TrustLogin: trustLogin, Log: logger}
}

type signInRequest struct {
	UserID string `json:"user_id"`
}

// HandleSignIn handles POST /session.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if !h.TrustLogin {
		http.NotFound(w, r)
		return
	}
	var req signInRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, h.Log, apperr.Validation("user_id", "user id is invalid"))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "sign in")
	defer cancel()
	me, err := h.Tracker.Me(ctx, userID)
	if apperr.KindOf(err) == apperr.KindNotFound {
		httpjson.Unauthorized(w)
		return
	}
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if err := h.Sessions.SignIn(w, r, userID); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, h.Log, err)
		return
	}
	h.Log.Info("user signed in", zap.String("user_id", userID.Hex()))
	httpjson.OK(w, me)
}

// HandleSignOut handles DELETE /session.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("session clear failed", zap.Error(err))
	}
	httpjson.NoContent(w)
}
