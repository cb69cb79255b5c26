// internal/app/features/certificates/routes.go
package certificates

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the certificate management screen (typically at "/certificates").
// Optional middleware in submit wraps the mutation submission route.
func Routes(h *Handler, sm *auth.SessionManager, submit ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		// Only signed-in admins review certificates.
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)

		// Approve / disapprove confirmation modal (?action=approve|disapprove)
		pr.Post("/modal/cancel", h.HandleCancel)
		pr.Get("/{id}/review_modal", h.ServeReviewModal)
		pr.With(submit...).Post("/{id}/review", h.HandleReview)
	})

	return r
}
