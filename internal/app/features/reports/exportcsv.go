// internal/app/features/reports/exportcsv.go
package reports

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/dalemusser/teamstats/internal/app/system/auth"
	"github.com/dalemusser/teamstats/internal/app/system/csvutil"
	"github.com/dalemusser/teamstats/internal/app/system/httpjson"
	"github.com/dalemusser/teamstats/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ServeExportCSV handles GET /teams/{teamID}/export.csv?season= and streams
// the season's games and stat lines as CSV.
func (h *Handler) ServeExportCSV(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.Actor(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Export(), h.Log, "export season")
	defer cancel()
	exp, err := h.Tracker.ExportSeason(ctx, actorID, httpjson.IDParam(r, "teamID"), query.Get(r, "season"))
	if err != nil {
		httpjson.Error(w, h.Log, err)
		return
	}

	filename := exportFilename(exp.Team.Name, seasonLabel(exp.Season))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	w.WriteHeader(http.StatusOK)

	// Headers are sent; a failure now can only be logged.
	if err := csvutil.WriteSeason(w, exp.Data); err != nil {
		h.Log.Warn("export: write failed", zap.Error(err), zap.String("team_id", exp.Team.ID.Hex()))
	}
}

// exportFilename builds "<team>_<season>.csv" from filename-safe characters.
func exportFilename(team, season string) string {
	base := unsafeFilename.ReplaceAllString(team+"_"+season, "_")
	if base == "_" {
		base = "season"
	}
	return base + ".csv"
}
