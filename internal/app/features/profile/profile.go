// internal/app/features/profile/profile.go
package profile

import (
	"net/http"

	uierrors "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// profileData is the view model for the profile page. Everything is
// read-only; account changes happen in the platform's own apps.
type profileData struct {
	viewdata.BaseVM

	FullName    string
	Email       string
	Phone       string
	AccountType string
	MemberSince string
}

// ServeProfile renders the signed-in user's account details.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); !ok {
		uierrors.RenderUnauthorized(w, r, "/")
		return
	}

	user, ok := h.Accounts.CurrentUser(r)
	if !ok {
		h.Log.Warn("profile: signed-in account not found")
		uierrors.RenderNotFound(w, r, "Your account could not be found.", "/")
		return
	}

	data := profileData{
		BaseVM:      viewdata.NewBaseVM(r, "Profile", "/dashboard"),
		FullName:    user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		AccountType: accountType(user.UserType),
	}
	if !user.CreatedAt.IsZero() {
		data.MemberSince = user.CreatedAt.Format("January 2, 2006")
	}

	h.Log.Debug("profile served", zap.String("user_id", user.ID.Hex()))

	h.Render.Render(w, r, "profile", data)
}

func accountType(t string) string {
	switch t {
	case models.UserTypeAdmin:
		return "Administrator"
	case models.UserTypeRecycler:
		return "Recycler"
	case models.UserTypeDelivery:
		return "Delivery partner"
	default:
		return "User"
	}
}
