// internal/app/features/reports/routes.go
package reports

import "github.com/go-chi/chi/v5"

// MountRoutes registers report routes on a router mounted at /teams.
// Permission checks happen in the tracker.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/summary", h.ServeSummary)
	r.Get("/{teamID}/export.csv", h.ServeExportCSV)
}
