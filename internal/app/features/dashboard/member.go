// internal/app/features/dashboard/member.go
package dashboard

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/authz"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"go.uber.org/zap"
)

type memberData struct {
	viewdata.BaseVM
	Greeting string
}

// ServeMember renders the welcome card shown to recyclers, delivery
// partners and regular users. Their day-to-day work happens in the
// platform's own apps.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	base := viewdata.NewBaseVM(r, "Dashboard", "/")
	data := memberData{
		BaseVM:   base,
		Greeting: greeting(r),
	}

	h.Log.Debug("member dashboard served", zap.String("user", base.UserName), zap.String("user_type", base.UserType))

	h.Render.Render(w, r, "member_dashboard", data)
}

func greeting(r *http.Request) string {
	switch {
	case authz.IsRecycler(r):
		return "Thanks for keeping materials in circulation."
	case authz.IsDelivery(r):
		return "Thanks for moving materials to where they are needed."
	default:
		return "Thanks for recycling with us."
	}
}
