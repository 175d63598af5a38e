// internal/app/features/players/routes.go
package players

import "github.com/go-chi/chi/v5"

// MountRoutes registers roster routes on a router mounted at /teams.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/players", h.ServeList)
	r.Post("/{teamID}/players", h.HandleCreate)
	r.Post("/{teamID}/players/import", h.HandleImport)
	r.Put("/{teamID}/players/{playerID}", h.HandleUpdate)
}
