package transfer

import "github.com/go-chi/chi/v5"

// MountRoutes registers transfer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/execute", h.Execute)
	r.Post("/{id}/resubmit", h.Resubmit)
}
