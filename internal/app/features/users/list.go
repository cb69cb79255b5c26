// internal/app/features/users/list.go
package users

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/mutation"
	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /users.
//
// Query parameters (?search=, ?page=, ?reset=1, ?refresh=1) are applied to
// this browser's list state; a bare /users shows the state left by the
// previous visit. ?select=<id> toggles a row's checkbox; the selection
// survives paging and searching and is cleared by ?reset=1. HTMX requests
// targeting #list-body get only the table.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users: console session", err, "", "/dashboard")
		return
	}

	c.Apply(r.URL.Query())
	if id := r.URL.Query().Get("select"); id != "" {
		c.Store().ToggleSelection(id)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "users list")
	defer cancel()
	view := c.View(ctx)

	flow := c.Flow(mutation.ActionDelete)
	data := listData{
		ListVM:        viewdata.NewListVM(r, "Users", "/dashboard", "/users", view, c.Store().Query(), ""),
		SelectedCount: len(c.Store().Selection()),
	}
	for _, u := range view.Rows {
		row := toRow(u, flow.CanSelect(u))
		row.Selected = c.Store().IsSelected(row.ID)
		data.Rows = append(data.Rows, row)
	}

	h.Log.Debug("users list rendered",
		zap.String("mode", view.Mode.String()),
		zap.Int("rows", len(data.Rows)),
		zap.Int("selected", data.SelectedCount))

	if r.Header.Get("HX-Target") == "list-body" {
		h.Render.RenderSnippet(w, "users_list_body", data)
		return
	}
	h.Render.Render(w, r, "users_list", data)
}

func toRow(u models.User, canDelete bool) userRow {
	row := userRow{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		UserType:  u.UserType,
		Phone:     u.Phone,
		CanDelete: canDelete,
	}
	if !u.CreatedAt.IsZero() {
		row.Joined = u.CreatedAt.Format("Jan 2, 2006")
	}
	return row
}
