// internal/app/features/certificates/review.go
package certificates

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
	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const busyMessage = "A request is already in progress. Please wait."

// ServeReviewModal handles GET /certificates/{id}/review_modal?action=approve|disapprove.
func (h *Handler) ServeReviewModal(w http.ResponseWriter, r *http.Request) {
	action, ok := parseAction(r.URL.Query().Get("action"))
	if !ok {
		uierrors.HTMXBadRequest(w, r, "Unknown review action.", "/certificates")
		return
	}
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "certificates: console session", err, "", "/certificates")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "certificates review modal")
	defer cancel()
	if status, msg, ok := selectCert(ctx, c, action, chi.URLParam(r, "id")); !ok {
		rejectSelect(w, r, status, msg)
		return
	}
	h.renderModal(w, r, c.Flow(action))
}

// HandleReview handles POST /certificates/{id}/review with form fields
// "action" and "confirm". The confirmation checkbox is the explicit
// acknowledgement; without it no request is sent.
func (h *Handler) HandleReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uierrors.HTMXBadRequest(w, r, "Invalid form submission.", "/certificates")
		return
	}
	action, ok := parseAction(r.PostFormValue("action"))
	if !ok {
		uierrors.HTMXBadRequest(w, r, "Unknown review action.", "/certificates")
		return
	}
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "certificates: console session", err, "", "/certificates")
		return
	}
	flow := c.Flow(action)
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "review certificate")
	defer cancel()

	snap := flow.Snapshot()
	if snap.Selected == nil || certID(*snap.Selected) != id {
		if status, msg, ok := selectCert(ctx, c, action, id); !ok {
			rejectSelect(w, r, status, msg)
			return
		}
	}

	if r.PostFormValue("confirm") != "" {
		if err := flow.Acknowledge(); err != nil {
			rejectSelect(w, r, http.StatusConflict, busyMessage)
			return
		}
	}

	// The mutation outlives the request: a client disconnect must not abort
	// a write that may already have committed, nor its audit record.
	mctx, mcancel := timeouts.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Long(), h.Log, "review certificate")
	defer mcancel()
	mctx = auditlog.WithActor(mctx, auditlog.ActorFromRequest(r))
	req, err := flow.Submit(mctx)
	switch {
	case err == nil:
		h.Log.Info("certificate reviewed",
			zap.String("certificate_id", req.TargetID),
			zap.String("status", statusFor(action)),
			zap.String("request_id", req.ID))
		uierrors.HTMXRedirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL))
	case errors.Is(err, mutation.ErrBusy):
		rejectSelect(w, r, http.StatusConflict, busyMessage)
	default:
		h.renderModal(w, r, flow)
	}
}

// HandleCancel handles POST /certificates/modal/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "certificates: console session", err, "", "/certificates")
		return
	}
	if err := cancelAll(c); err != nil {
		rejectSelect(w, r, http.StatusConflict, busyMessage)
		return
	}
	if uierrors.IsHTMX(r) {
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.CertificatesBackURL), http.StatusSeeOther)
}

// selectCert opens action's flow on the certificate with id from the
// current page. Both review flows share the screen's single modal, so any
// open selection is dropped first.
func selectCert(ctx context.Context, c *console.Controller[models.Certificate], action mutation.Action, id string) (int, string, bool) {
	_ = c.Results().Await(ctx)
	cert, found := c.Find(id, certID)
	if !found {
		return http.StatusNotFound, "Certificate not found. The list may have changed; please reload.", false
	}
	if err := cancelAll(c); err != nil {
		return http.StatusConflict, busyMessage, false
	}
	if err := c.Flow(action).Select(cert); err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			return http.StatusConflict, apperr.Message(err, ""), false
		}
		return http.StatusConflict, busyMessage, false
	}
	return 0, "", true
}

func cancelAll(c *console.Controller[models.Certificate]) error {
	for _, a := range reviewActions {
		if err := c.Flow(a).Cancel(); err != nil {
			return err
		}
	}
	return nil
}

func rejectSelect(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if status == http.StatusNotFound {
		uierrors.HTMXNotFound(w, r, msg, "/certificates")
		return
	}
	uierrors.HTMXError(w, r, status, msg, func() {
		uierrors.RenderBadRequest(w, r, msg, "/certificates")
	})
}

func (h *Handler) renderModal(w http.ResponseWriter, r *http.Request, flow *mutation.Flow[models.Certificate]) {
	snap := flow.Snapshot()
	if snap.Selected == nil {
		uierrors.HTMXNotFound(w, r, "Certificate not found.", "/certificates")
		return
	}
	action := flow.Policy().Action
	verb := "Approve"
	if action == mutation.ActionDisapprove {
		verb = "Disapprove"
	}
	h.Render.RenderSnippet(w, "certificates_review_modal", reviewModalData{
		Cert: certRow{
			ID:                certID(*snap.Selected),
			UploaderName:      snap.Selected.UploadedBy.Name,
			UploaderEmail:     snap.Selected.UploadedBy.Email,
			DocumentType:      snap.Selected.DocumentType,
			CertificateNumber: snap.Selected.CertificateNumber,
			IssuingAuthority:  snap.Selected.IssuingAuthority,
			ValidityPeriod:    snap.Selected.ValidityPeriod,
			Status:            snap.Selected.Status,
		},
		Action:     string(action),
		Verb:       verb,
		Submitting: snap.State == mutation.Submitting,
		ErrMessage: snap.ErrMessage,
		ReturnURL:  navigation.SafeBackURL(r, navigation.CertificatesBackURL),
	})
}
