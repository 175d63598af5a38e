// internal/app/features/games/routes.go
package games

import (
	"github.com/dalemusser/teamstats/internal/app/system/workflow"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers game routes on a router mounted at /teams.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/games", h.ServeList)
	r.Post("/{teamID}/games", h.HandleCreate)
	r.Get("/{teamID}/games/{gameID}", h.ServeGame)
	r.Put("/{teamID}/games/{gameID}", h.HandleUpdate)
	r.Delete("/{teamID}/games/{gameID}", h.HandleDelete)
	r.Post("/{teamID}/games/{gameID}/finalize", h.transition(workflow.Finalize))
	r.Post("/{teamID}/games/{gameID}/reopen", h.transition(workflow.Reopen))
}
