// internal/app/features/signup/handler.go
package signup

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

// Handler creates accounts from join and invite codes.
type Handler struct {
	Tracker  *tracker.Service
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(svc *tracker.Service, sm *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Sessions: sm, Log: logger}
}

// HandleSignup handles POST /signup. The new user is signed in on success.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in tracker.SignupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "signup")
	defer cancel()
	res, err := h.Tracker.Signup(ctx, in)
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	if h.Sessions != nil {
		if err := h.Sessions.SignIn(w, r, res.User.ID); err != nil {
			// The account exists; the client can still sign in later.
			h.Log.Warn("signup: session save failed", zap.Error(err), zap.String("user_id", res.User.ID.Hex()))
		}
	}
	h.Log.Info("user signed up",
		zap.String("user_id", res.User.ID.Hex()),
		zap.String("team_id", res.Team.ID.Hex()))
	httpjson.Created(w, res)
}
