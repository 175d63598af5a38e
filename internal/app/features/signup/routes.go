// internal/app/features/signup/routes.go
package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes is mounted at /signup. limit guards account creation; nil means
// no limit.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limit != nil {
		r.Use(limit)
	}
	r.Post("/", h.HandleSignup)
	return r
}
