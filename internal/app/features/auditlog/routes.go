// internal/app/features/auditlog/routes.go
package auditlog

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /{teamID}/audit on a router mounted at /teams.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/{teamID}/audit", h.ServeList)
}
