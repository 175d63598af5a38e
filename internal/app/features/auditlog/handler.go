// internal/app/features/auditlog/handler.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/paging"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/teamstats/internal/app/tracker"
	"go.uber.org/zap"
)

type Handler struct {
	Tracker *tracker.Service
	Log     *zap.Logger
}

// NewHandler constructs an Audit Log feature handler.
func NewHandler(svc *tracker.Service, logger *zap.Logger) *Handler {
	return &Handler{Tracker: svc, Log: logger}
}

// ServeList returns the team's audit entries, newest first. Staff only.
//
// Query parameters:
//
//	limit  - page size (default 50, max 200)
//	before - next_cursor from the previous page
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}
	before, _ := paging.ParseBefore(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "list audit")
	defer cancel()
	page, err := h.Tracker.ListAudit(ctx, actorID, httpjson.IDParam(r, "teamID"), before, paging.ParseLimit(r))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, page)
}
