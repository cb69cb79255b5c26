// internal/app/features/users/routes.go
package users

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the user management screen (typically at "/users").
// Optional middleware in submit wraps the mutation submission route.
func Routes(h *Handler, sm *auth.SessionManager, submit ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only signed-in admins can manage users.
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)

		// Delete confirmation modal
		pr.Post("/modal/cancel", h.HandleCancel)
		pr.Get("/{id}/delete_modal", h.ServeDeleteModal)
		pr.With(submit...).Post("/{id}/delete", h.HandleDelete)
	})

	return r
}
