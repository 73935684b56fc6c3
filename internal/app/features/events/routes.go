// internal/app/features/events/routes.go
package events

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the events subrouter, mounted under /api/events.
// requireUser guards every route.
func Routes(h *Handler, requireUser func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(requireUser)

		// LIST / CREATE
		pr.Get("/", h.ServeList)
		pr.Post("/", h.HandleCreate)

		// Caller-scoped views
		pr.Get("/my-registrations", h.ServeMyRegistrations)
		pr.Get("/my-events", h.ServeMyEvents)

		// VIEW / UPDATE / DELETE
		pr.Get("/{id}", h.ServeView)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)

		// REGISTRATION
		pr.Post("/{id}/register", h.HandleRegister)
		pr.Delete("/{id}/register", h.HandleUnregister)
	})

	return r
}
