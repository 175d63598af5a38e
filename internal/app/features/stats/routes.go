// internal/app/features/stats/routes.go
package stats

import "github.com/go-chi/chi/v5"

// MountRoutes registers stat entry routes on a router mounted at /teams.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/games/{gameID}/stats", h.ServeSheet)
	r.Put("/{teamID}/games/{gameID}/stats/{playerID}", h.HandleSave)
	r.Post("/{teamID}/games/{gameID}/stats/{playerID}/increment", h.HandleIncrement)
}
