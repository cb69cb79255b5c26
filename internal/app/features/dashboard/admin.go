// internal/app/features/dashboard/admin.go
package dashboard

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/store/audit"
	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.uber.org/zap"
)

// countCard is one tile on the admin dashboard.
type countCard struct {
	Label string
	Count int64
	Href  string
}

// recentLimit is how many admin actions the dashboard lists.
const recentLimit = 5

// activityRow is one recent admin action.
type activityRow struct {
	When    string
	Summary string
	Reason  string
}

type adminData struct {
	viewdata.BaseVM

	UserCards        []countCard
	CertificateCards []countCard
	TotalUsers       int64
	PendingReviews   int64
	Recent           []activityRow

	// CountsUnavailable is set when a count query failed; the cards then
	// show what could be loaded.
	CountsUnavailable bool
}

func (h *Handler) ServeAdmin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin dashboard counts")
	defer cancel()

	data := adminData{BaseVM: viewdata.NewBaseVM(r, "Admin Dashboard", "/")}

	byType, err := h.Users.CountByType(ctx)
	if err != nil {
		h.Log.Warn("dashboard: count users", zap.Error(err))
		data.CountsUnavailable = true
	}
	for _, t := range models.AllUserTypes {
		n := byType[t]
		data.TotalUsers += n
		data.UserCards = append(data.UserCards, countCard{Label: plural(t), Count: n, Href: "/users"})
	}

	byStatus, err := h.Certificates.CountByStatus(ctx)
	if err != nil {
		h.Log.Warn("dashboard: count certificates", zap.Error(err))
		data.CountsUnavailable = true
	}
	for _, s := range models.CertificateStatuses {
		data.CertificateCards = append(data.CertificateCards, countCard{
			Label: statusLabel(s),
			Count: byStatus[s],
			Href:  "/certificates?status=" + s,
		})
	}
	data.PendingReviews = byStatus[models.CertificatePending]

	if h.Activity != nil {
		events, err := h.Activity.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin, Limit: recentLimit})
		if err != nil {
			h.Log.Warn("dashboard: recent activity", zap.Error(err))
		}
		for _, e := range events {
			data.Recent = append(data.Recent, activity(e))
		}
	}

	h.Log.Debug("admin dashboard served", zap.String("user", data.UserName))

	h.Render.Render(w, r, "admin_dashboard", data)
}

func plural(userType string) string {
	switch userType {
	case models.UserTypeDelivery:
		return "Delivery partners"
	case models.UserTypeUser:
		return "Users"
	default:
		return label(userType) + "s"
	}
}

func statusLabel(status string) string { return label(status) }

func label(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func activity(e audit.Event) activityRow {
	row := activityRow{When: e.Timestamp.UTC().Format(time.RFC822)}
	switch e.EventType {
	case audit.EventUserDeleted:
		row.Summary = "Deleted user " + e.Details["email"]
		row.Reason = e.Details["reason"]
	case audit.EventCertificateApproved:
		row.Summary = "Approved certificate " + e.Details["certificate_number"]
	case audit.EventCertificateDisapproved:
		row.Summary = "Disapproved certificate " + e.Details["certificate_number"]
	default:
		row.Summary = strings.ReplaceAll(e.EventType, "_", " ")
	}
	return row
}
