// internal/app/features/users/delete.go
package users

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/auditlog"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/app/system/mutation"
	"github.com/dalemusser/recycleadmin/internal/app/system/navigation"
	"github.com/dalemusser/recycleadmin/internal/app/system/normalize"
	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const busyMessage = "A request is already in progress. Please wait."

// ServeDeleteModal handles GET /users/{id}/delete_modal.
//
// It opens the confirmation modal for a user on the current page. An
// abandoned modal from an earlier visit is discarded first.
func (h *Handler) ServeDeleteModal(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "users: console session", err, "", "/users")
		return
	}
	flow := c.Flow(mutation.ActionDelete)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "users delete modal")
	defer cancel()
	if status, msg, ok := h.selectUser(ctx, c, flow, chi.URLParam(r, "id")); !ok {
		h.rejectSelect(w, r, status, msg)
		return
	}
	h.renderModal(w, r, flow)
}

// HandleDelete handles POST /users/{id}/delete with form field "reason".
//
// On success the browser returns to the list (HX-Redirect for HTMX); the
// list has already been refreshed. On failure the modal is re-rendered with
// the error and the entered reason so the admin can retry or cancel.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uierrors.HTMXBadRequest(w, r, "Invalid form submission.", "/users")
		return
	}
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "users: console session", err, "", "/users")
		return
	}
	flow := c.Flow(mutation.ActionDelete)
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "delete user")
	defer cancel()

	// A plain form post (no modal round-trip) selects here.
	snap := flow.Snapshot()
	if snap.Selected == nil || userID(*snap.Selected) != id {
		if status, msg, ok := h.selectUser(ctx, c, flow, id); !ok {
			h.rejectSelect(w, r, status, msg)
			return
		}
	}

	if err := flow.SetInput(normalize.Reason(r.PostFormValue("reason"))); err != nil {
		h.rejectSelect(w, r, http.StatusConflict, busyMessage)
		return
	}

	// The mutation outlives the request: a client disconnect must not abort
	// a write that may already have committed, nor its audit record.
	mctx, mcancel := timeouts.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Long(), h.Log, "delete user")
	defer mcancel()
	mctx = auditlog.WithActor(mctx, auditlog.ActorFromRequest(r))

	req, err := flow.Submit(mctx)
	switch {
	case err == nil:
		h.Log.Info("user deleted", zap.String("user_id", req.TargetID), zap.String("request_id", req.ID))
		if c.Store().IsSelected(req.TargetID) {
			c.Store().ToggleSelection(req.TargetID)
		}
		uierrors.HTMXRedirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL))
	case errors.Is(err, mutation.ErrBusy):
		uierrors.HTMXError(w, r, http.StatusConflict, busyMessage, func() {
			uierrors.RenderBadRequest(w, r, busyMessage, "/users")
		})
	default:
		// Validation and service failures keep the modal open.
		h.renderModal(w, r, flow)
	}
}

// HandleCancel handles POST /users/modal/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "users: console session", err, "", "/users")
		return
	}
	if err := c.Flow(mutation.ActionDelete).Cancel(); err != nil {
		uierrors.HTMXError(w, r, http.StatusConflict, busyMessage, func() {
			uierrors.RenderBadRequest(w, r, busyMessage, "/users")
		})
		return
	}
	if uierrors.IsHTMX(r) {
		// Empty body: the modal container is cleared.
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.UsersBackURL), http.StatusSeeOther)
}

// selectUser points the flow at the user with id from the current page.
func (h *Handler) selectUser(ctx context.Context, c *console.Controller[models.User], flow *mutation.Flow[models.User], id string) (int, string, bool) {
	_ = c.Results().Await(ctx)
	u, found := c.Find(id, userID)
	if !found {
		return http.StatusNotFound, "User not found. The list may have changed; please reload.", false
	}
	if err := flow.Cancel(); err != nil {
		return http.StatusConflict, busyMessage, false
	}
	if err := flow.Select(u); err != nil {
		if apperr.Is(err, apperr.KindAuthorization) {
			return http.StatusForbidden, apperr.Message(err, ""), false
		}
		return http.StatusConflict, busyMessage, false
	}
	return 0, "", true
}

func (h *Handler) rejectSelect(w http.ResponseWriter, r *http.Request, status int, msg string) {
	switch status {
	case http.StatusNotFound:
		uierrors.HTMXNotFound(w, r, msg, "/users")
	case http.StatusForbidden:
		uierrors.HTMXForbidden(w, r, msg, "/users")
	default:
		uierrors.HTMXError(w, r, status, msg, func() {
			uierrors.RenderBadRequest(w, r, msg, "/users")
		})
	}
}

func (h *Handler) renderModal(w http.ResponseWriter, r *http.Request, flow *mutation.Flow[models.User]) {
	snap := flow.Snapshot()
	if snap.Selected == nil {
		uierrors.HTMXNotFound(w, r, "User not found.", "/users")
		return
	}
	h.Render.RenderSnippet(w, "users_delete_modal", deleteModalData{
		User:       toRow(*snap.Selected, true),
		Reason:     snap.Input,
		CanSubmit:  snap.CanSubmit,
		Submitting: snap.State == mutation.Submitting,
		ErrMessage: snap.ErrMessage,
		ReturnURL:  navigation.SafeBackURL(r, navigation.UsersBackURL),
	})
}
