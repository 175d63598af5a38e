// internal/app/features/reports/summary.go
package reports

import (
	"net/http"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeSummary handles GET /teams/{teamID}/summary?season= and returns one
// row per active skater and goalie plus team totals. Blank season means
// the team's current season; "all" aggregates every season.
func (h *Handler) ServeSummary(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "season summary")
	defer cancel()
	sum, err := h.Tracker.SeasonSummary(ctx, actorID, httpjson.IDParam(r, "teamID"), query.Get(r, "season"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}
	httpjson.OK(w, buildSummary(sum))
}
