package home

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	// LoginURL is the platform's sign-in page.
	LoginURL string
	Render   viewdata.Renderer
	Log      *zap.Logger
}

func NewHandler(loginURL string, logger *zap.Logger) *Handler {
	return &Handler{
		LoginURL: loginURL,
		Render:   viewdata.Templates{},
		Log:      logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	LoginURL string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot sends signed-in users to their dashboard and shows everyone
// else a landing page with a link to the platform's sign-in.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	h.Render.Render(w, r, "home", homeData{
		BaseVM:   viewdata.NewBaseVM(r, "Welcome", "/"),
		LoginURL: h.LoginURL,
	})
}
