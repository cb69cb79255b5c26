// internal/app/features/certificates/list.go
package certificates

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/app/system/mutation"
	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// ServeList handles GET /certificates.
//
// Tabs select the review status (?status=pending|approved|disapproved,
// pending by default); each tab shows its count badge. Switching tabs
// returns to page 1.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	c, err := h.controller(w, r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "certificates: console session", err, "", "/dashboard")
		return
	}

	c.Apply(r.URL.Query())

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "certificates list")
	defer cancel()
	view := c.View(ctx)

	data := listData{
		ListVM:    viewdata.NewListVM(r, "Certificates", "/dashboard", "/certificates", view, c.Store().Query(), tabKey),
		ActiveTab: view.ActiveTab,
	}
	for _, cert := range view.Rows {
		data.Rows = append(data.Rows, toRow(c, cert))
	}

	h.Log.Debug("certificates list rendered",
		zap.String("tab", view.ActiveTab),
		zap.String("mode", view.Mode.String()),
		zap.Int("rows", len(data.Rows)))

	if r.Header.Get("HX-Target") == "list-body" {
		h.Render.RenderSnippet(w, "certificates_list_body", data)
		return
	}
	h.Render.Render(w, r, "certificates_list", data)
}

func toRow(c *console.Controller[models.Certificate], cert models.Certificate) certRow {
	row := certRow{
		ID:                cert.ID.Hex(),
		UploaderName:      cert.UploadedBy.Name,
		UploaderEmail:     cert.UploadedBy.Email,
		DocumentType:      cert.DocumentType,
		CertificateNumber: cert.CertificateNumber,
		IssuingAuthority:  cert.IssuingAuthority,
		ValidityPeriod:    cert.ValidityPeriod,
		Status:            cert.Status,
		CanApprove:        c.Flow(mutation.ActionApprove).CanSelect(cert),
		CanDisapprove:     c.Flow(mutation.ActionDisapprove).CanSelect(cert),
	}
	row.DocumentURL = documentLink(cert.UploadDocumentRef)
	if !cert.CreatedAt.IsZero() {
		row.Uploaded = cert.CreatedAt.Format("Jan 2, 2006")
	}
	return row
}

// documentLink returns ref if it is an http(s) URL or a site path, and ""
// for anything else (javascript:, protocol-relative, bare keys).
func documentLink(ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || ref == "" {
		return ""
	}
	switch {
	case (u.Scheme == "http" || u.Scheme == "https") && u.Host != "":
		return u.String()
	case u.Scheme == "" && u.Host == "" && strings.HasPrefix(u.Path, "/"):
		return u.String()
	}
	return ""
}
