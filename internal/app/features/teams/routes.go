// internal/app/features/teams/routes.go
package teams

import "github.com/go-chi/chi/v5"

// MountRoutes registers team routes on a router mounted at /teams.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/", h.HandleCreate)
	r.Get("/{teamID}", h.ServeTeam)
	r.Put("/{teamID}/season", h.HandleUpdateSeason)
	r.Get("/{teamID}/seasons", h.ServeSeasons)
}
