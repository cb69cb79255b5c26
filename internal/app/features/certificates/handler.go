// internal/app/features/certificates/handler.go
package certificates

import (
	"context"
	"fmt"
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

const (
	screen = "certificates"
	tabKey = "status"
)

// reviewActions are the row actions in button order.
var reviewActions = []mutation.Action{mutation.ActionApprove, mutation.ActionDisapprove}

type Handler struct {
	Certificates platform.Certificates
	Consoles     *console.Registry
	IDs          console.IDSource
	PageSize     int
	Render       viewdata.Renderer
	ErrLog       *uierrors.ErrorLogger
	Log          *zap.Logger
}

// NewHandler constructs the certificate management handler.
func NewHandler(certs platform.Certificates, consoles *console.Registry, ids console.IDSource, pageSize int, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Certificates: certs,
		Consoles:     consoles,
		IDs:          ids,
		PageSize:     paging.NormalizeSize(pageSize),
		Render:       viewdata.Templates{},
		ErrLog:       errLog,
		Log:          logger,
	}
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*console.Controller[models.Certificate], error) {
	sess, err := h.Consoles.SessionFor(w, r, h.IDs)
	if err != nil {
		return nil, err
	}
	return console.Use(sess, screen, h.newController), nil
}

func (h *Handler) newController() *console.Controller[models.Certificate] {
	c := console.NewController(console.Config[models.Certificate]{
		Name:       screen,
		Noun:       "certificates",
		PageSize:   h.PageSize,
		FilterKeys: []string{tabKey},
		TabKey:     tabKey,
		Tabs:       models.CertificateStatuses,
		Fetch: func(ctx context.Context, k listview.Key) (paging.Result[models.Certificate], error) {
			status := k.FilterValue(tabKey)
			if status == "" {
				status = models.CertificatePending
			}
			return h.Certificates.FetchCertificates(ctx, k.Page, k.PageSize, status)
		},
		Counts:        h.Certificates.CountByStatus,
		ErrorFallback: "Could not load certificates. Please try again.",
		Context:       h.Consoles.Context(),
		Logger:        h.Log,
	})
	for _, a := range reviewActions {
		status := statusFor(a)
		c.AddFlow(reviewPolicy(a), func(ctx context.Context, req mutation.Request) error {
			return h.Certificates.UpdateCertificateStatus(ctx, req.TargetID, status)
		})
	}
	return c
}

// reviewPolicy gates a status change behind an explicit confirmation. A
// certificate already in the target status cannot be selected.
func reviewPolicy(a mutation.Action) mutation.Policy[models.Certificate] {
	status := statusFor(a)
	return mutation.Policy[models.Certificate]{
		Action:     a,
		RequireAck: true,
		TargetID:   certID,
		Guard: func(c models.Certificate) error {
			if c.Status == status {
				return apperr.Validation(fmt.Sprintf("This certificate is already %s.", status))
			}
			return nil
		},
		FailureMessage: "Could not update the certificate. Please try again.",
	}
}

func statusFor(a mutation.Action) string {
	if a == mutation.ActionApprove {
		return models.CertificateApproved
	}
	return models.CertificateDisapproved
}

func parseAction(s string) (mutation.Action, bool) {
	for _, a := range reviewActions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

func certID(c models.Certificate) string { return c.ID.Hex() }
