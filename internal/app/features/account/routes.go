// internal/app/features/account/routes.go
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the auth subrouter, mounted under /api/auth.
func Routes(h *Handler, requireUser func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)

	r.With(requireUser).Get("/me", h.ServeMe)

	return r
}
