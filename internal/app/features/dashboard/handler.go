// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/platform"
	"github.com/dalemusser/recycleadmin/internal/app/store/audit"
	"github.com/dalemusser/recycleadmin/internal/app/system/authz"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// ActivitySource lists recorded audit events, newest first.
type ActivitySource interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
}

type Handler struct {
	Users        platform.Users
	Certificates platform.Certificates
	Activity     ActivitySource // optional
	Render       viewdata.Renderer
	Log          *zap.Logger
}

func NewHandler(users platform.Users, certs platform.Certificates, activity ActivitySource, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		Certificates: certs,
		Activity:     activity,
		Render:       viewdata.Templates{},
		Log:          logger,
	}
}

// ServeDashboard dispatches to the view for the signed-in user type.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.UserType(r); !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch {
	case authz.IsAdmin(r):
		h.ServeAdmin(w, r)
	case authz.HasAnyUserType(r, models.UserTypeRecycler, models.UserTypeDelivery, models.UserTypeUser):
		h.ServeMember(w, r)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
