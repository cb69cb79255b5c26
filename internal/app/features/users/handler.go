// internal/app/features/users/handler.go
package users

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	"github.com/dalemusser/recycleadmin/internal/app/platform"
	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/app/system/listview"
	"github.com/dalemusser/recycleadmin/internal/app/system/mutation"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// screen is the console key of the user management list.
const screen = "users"

type Handler struct {
	Users    platform.Users
	Consoles *console.Registry
	IDs      console.IDSource
	PageSize int
	Render   viewdata.Renderer
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs the user management handler.
func NewHandler(users platform.Users, consoles *console.Registry, ids console.IDSource, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Consoles: consoles,
		IDs:      ids,
		PageSize: paging.NormalizeSize(pageSize),
		Render:   viewdata.Templates{},
		ErrLog:   errLog,
		Log:      logger,
	}
}

// controller returns this browser's user list controller.
func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*console.Controller[models.User], error) {
	sess, err := h.Consoles.SessionFor(w, r, h.IDs)
	if err != nil {
		return nil, err
	}
	return console.Use(sess, screen, h.newController), nil
}

func (h *Handler) newController() *console.Controller[models.User] {
	c := console.NewController(console.Config[models.User]{
		Name:     screen,
		Noun:     "users",
		PageSize: h.PageSize,
		Fetch: func(ctx context.Context, k listview.Key) (paging.Result[models.User], error) {
			return h.Users.FetchUsers(ctx, k.Page, k.PageSize, k.Search)
		},
		ErrorFallback: "Could not load users. Please try again.",
		Context:       h.Consoles.Context(),
		Logger:        h.Log,
	})
	c.AddFlow(deletePolicy, func(ctx context.Context, req mutation.Request) error {
		return h.Users.DeleteUser(ctx, req.TargetID, req.Payload["reason"])
	})
	return c
}

// deletePolicy: a non-blank reason is required and admins cannot be deleted.
var deletePolicy = mutation.Policy[models.User]{
	Action:        mutation.ActionDelete,
	RequireReason: true,
	TargetID:      userID,
	Guard: func(u models.User) error {
		if u.IsAdmin() {
			return apperr.Authorization("Admin accounts cannot be deleted.")
		}
		return nil
	},
	FailureMessage: "Could not delete the user. Please try again.",
}

func userID(u models.User) string { return u.ID.Hex() }
