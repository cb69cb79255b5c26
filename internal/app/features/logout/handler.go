// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/auditlog"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Consoles   *console.Registry
	Audit      *auditlog.Logger
}

// NewHandler wires logout. consoles and audit may be nil.
func NewHandler(sessionMgr *auth.SessionManager, consoles *console.Registry, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Consoles:   consoles,
		Audit:      audit,
	}
}

// ServeLogout handles POST /logout. It clears the session cookie, drops the
// session's cached list screens and returns to "/".
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	user, signedIn := auth.CurrentUser(r)

	consoleID, err := h.SessionMgr.Logout(w, r)
	if err != nil {
		// Still redirect; an undecodable cookie is as good as gone.
		h.Log.Warn("logout: clear session", zap.Error(err))
	}
	if consoleID != "" && h.Consoles != nil {
		h.Consoles.Drop(consoleID)
	}
	if signedIn {
		h.Audit.Logout(r.Context(), r, user.ID)
		h.Log.Info("user logged out", zap.String("user_id", user.ID))
	}

	// HTMX handling: use HX-Redirect to force a client-side navigation to "/".
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
