// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// MountRoutes registers member and invite routes on a router mounted at
// /teams. Role checks happen in the tracker.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/members", h.ServeList)
	r.Post("/{teamID}/members/{userID}/promote", h.HandlePromote)
	r.Post("/{teamID}/invites", h.HandleIssueInvite)
}
