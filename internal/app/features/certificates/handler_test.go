package certificates_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/features/certificates"
	uierrors "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeCerts is an in-memory platform.Certificates.
type fakeCerts struct {
	mu        sync.Mutex
	certs     []models.Certificate
	fetches   []string
	updates   map[string]string
	updateErr error
}

func newFakeCerts(pending, approved int) *fakeCerts {
	f := &fakeCerts{updates: map[string]string{}}
	add := func(status string, n int) {
		for i := 1; i <= n; i++ {
			f.certs = append(f.certs, models.Certificate{
				ID:                primitive.NewObjectID(),
				UploadedBy:        models.Uploader{Name: "Green Co", Email: "ops@green.example"},
				DocumentType:      "Recycling licence",
				CertificateNumber: fmt.Sprintf("%s-%03d", status, i),
				IssuingAuthority:  "EPA",
				ValidityPeriod:    "2026-2027",
				Status:            status,
				UploadDocumentRef: "https://files.example.com/" + status,
				CreatedAt:         time.Date(2026, 3, i%28+1, 0, 0, 0, 0, time.UTC),
			})
		}
	}
	add(models.CertificatePending, pending)
	add(models.CertificateApproved, approved)
	return f
}

func (f *fakeCerts) FetchCertificates(ctx context.Context, page, pageSize int, status string) (paging.Result[models.Certificate], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, status)

	var matched []models.Certificate
	for _, c := range f.certs {
		if c.Status == status {
			matched = append(matched, c)
		}
	}
	total := int64(len(matched))
	page = paging.Clamp(page, paging.TotalPages(total, pageSize))
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return paging.NewResult(matched[start:end], page, pageSize, total), nil
}

func (f *fakeCerts) UpdateCertificateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.certs {
		if f.certs[i].ID.Hex() == id {
			f.certs[i].Status = status
			f.updates[id] = status
			return nil
		}
	}
	return apperr.Transport("Certificate not found.", nil)
}

func (f *fakeCerts) CountByStatus(ctx context.Context) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for _, s := range models.CertificateStatuses {
		out[s] = 0
	}
	for _, c := range f.certs {
		out[c.Status]++
	}
	return out, nil
}

func (f *fakeCerts) byStatus(status string) []models.Certificate {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Certificate
	for _, c := range f.certs {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

type fixture struct {
	h      *certificates.Handler
	svc    *fakeCerts
	render *testutil.RenderRecorder
	admin  testutil.TestUser
}

func newFixture(t *testing.T, pending, approved int) *fixture {
	t.Helper()
	logger := zap.NewNop()
	reg := console.NewRegistry(time.Minute, logger)
	t.Cleanup(reg.Close)

	rr := &testutil.RenderRecorder{}
	prev := uierrors.Renderer
	uierrors.Renderer = rr
	t.Cleanup(func() { uierrors.Renderer = prev })

	svc := newFakeCerts(pending, approved)
	h := certificates.NewHandler(svc, reg, testutil.ConsoleID("console-1"), 10, uierrors.NewErrorLogger(logger), logger)
	h.Render = rr
	return &fixture{h: h, svc: svc, render: rr, admin: testutil.AdminUser()}
}

func (f *fixture) list(t *testing.T, query string) testutil.Rendered {
	t.Helper()
	target := "/certificates"
	if query != "" {
		target += "?" + query
	}
	rec := httptest.NewRecorder()
	f.h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", target, f.admin))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", target, rec.Code)
	}
	got, ok := f.render.Last()
	if !ok {
		t.Fatal("nothing rendered")
	}
	return got
}

func (f *fixture) modal(t *testing.T, id, action string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewAuthenticatedRequest("GET", "/certificates/"+id+"/review_modal?action="+action, f.admin)
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	f.h.ServeReviewModal(rec, req)
	return rec
}

func (f *fixture) review(t *testing.T, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewFormRequest("/certificates/"+id+"/review", body+"&return=%2Fcertificates%3Fpage%3D2", f.admin)
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(req, "id", id)
	rec := httptest.NewRecorder()
	f.h.HandleReview(rec, req)
	return rec
}

func dump(r testutil.Rendered) string { return fmt.Sprintf("%+v", r.Data) }

func TestServeList_PendingTabByDefault(t *testing.T) {
	f := newFixture(t, 25, 3)

	got := f.list(t, "")

	if got.Name != "certificates_list" {
		t.Fatalf("rendered %q, want certificates_list", got.Name)
	}
	d := dump(got)
	checks := []string{
		"ActiveTab:pending",
		"Key:pending Label:Pending Count:25 HasCount:true Active:true",
		"Key:approved Label:Approved Count:3 HasCount:true Active:false",
		"PrevURL: NextURL:/certificates?page=2",
		"pending-010",
	}
	for _, want := range checks {
		if !strings.Contains(d, want) {
			t.Errorf("page model missing %q:\n%s", want, d)
		}
	}
	if strings.Contains(d, "pending-011") || strings.Contains(d, "approved-001") {
		t.Error("page 1 of pending should hold only the first ten pending certificates")
	}
}

func TestServeList_LastPageDisablesNext(t *testing.T) {
	f := newFixture(t, 25, 0)

	got := f.list(t, "page=3")

	d := dump(got)
	if !strings.Contains(d, "pending-025") || !strings.Contains(d, "PrevURL:/certificates?page=2 NextURL: ") {
		t.Errorf("unexpected last page model:\n%s", d)
	}
}

func TestServeList_PageBeyondLastIsClamped(t *testing.T) {
	f := newFixture(t, 25, 0)
	f.list(t, "")

	got := f.list(t, "page=9")

	if d := dump(got); !strings.Contains(d, "SelfURL:/certificates?page=3}") {
		t.Errorf("expected page 9 to clamp to 3:\n%s", d)
	}
}

func TestServeList_TabSwitchResetsPage(t *testing.T) {
	f := newFixture(t, 25, 3)
	f.list(t, "page=2")

	got := f.list(t, "status=approved")

	d := dump(got)
	if !strings.Contains(d, "SelfURL:/certificates?status=approved}") {
		t.Errorf("switching tabs should return to page 1:\n%s", d)
	}
	if !strings.Contains(d, "approved-003") || strings.Contains(d, "pending-001") {
		t.Errorf("approved tab shows the wrong rows:\n%s", d)
	}
}

func TestServeList_EmptyTabMessage(t *testing.T) {
	f := newFixture(t, 2, 0)

	got := f.list(t, "status=disapproved")

	if d := dump(got); !strings.Contains(d, "Mode:empty") || !strings.Contains(d, "Message:No disapproved certificates") {
		t.Errorf("expected tab-scoped empty message:\n%s", d)
	}
}

func TestReviewModal_UnknownAction(t *testing.T) {
	f := newFixture(t, 2, 0)
	f.list(t, "")

	rec := f.modal(t, f.svc.certs[0].ID.Hex(), "delete")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestReviewModal_AlreadyInTargetStatus(t *testing.T) {
	f := newFixture(t, 0, 2)
	f.list(t, "status=approved")

	rec := f.modal(t, f.svc.certs[0].ID.Hex(), "approve")

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	got, _ := f.render.Last()
	if got.Name != "error_snippet" || !strings.Contains(dump(got), "This certificate is already approved.") {
		t.Errorf("unexpected render %q: %s", got.Name, dump(got))
	}
}

func TestReview_MissingConfirmationIssuesNoRequest(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.list(t, "")
	id := f.svc.certs[0].ID.Hex()

	if rec := f.modal(t, id, "approve"); rec.Code != http.StatusOK {
		t.Fatalf("modal status = %d", rec.Code)
	}
	f.review(t, id, "action=approve")

	got, _ := f.render.Last()
	if got.Name != "certificates_review_modal" || !strings.Contains(dump(got), "ErrMessage:Please confirm this action.") {
		t.Errorf("expected modal asking for confirmation, got %q %s", got.Name, dump(got))
	}
	if len(f.svc.updates) != 0 {
		t.Error("UpdateCertificateStatus must not be called without confirmation")
	}
}

func TestReview_ApproveRedirectsAndRefreshesBadges(t *testing.T) {
	f := newFixture(t, 25, 3)
	f.list(t, "")
	id := f.svc.certs[0].ID.Hex()

	f.modal(t, id, "approve")
	rec := f.review(t, id, "action=approve&confirm=1")

	if got := rec.Header().Get("HX-Redirect"); got != "/certificates?page=2" {
		t.Errorf("HX-Redirect = %q, want the return URL", got)
	}
	if f.svc.updates[id] != models.CertificateApproved {
		t.Errorf("status sent = %q", f.svc.updates[id])
	}

	d := dump(f.list(t, ""))
	if !strings.Contains(d, "Key:pending Label:Pending Count:24") || !strings.Contains(d, "Key:approved Label:Approved Count:4") {
		t.Errorf("badges not refreshed:\n%s", d)
	}
	if strings.Contains(d, "pending-001 ") {
		t.Error("approved certificate still on the pending tab")
	}
}

func TestReview_CompletesAfterClientDisconnect(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.list(t, "")
	id := f.svc.certs[0].ID.Hex()
	f.modal(t, id, "disapprove")

	req := testutil.NewFormRequest("/certificates/"+id+"/review", "action=disapprove&confirm=1", f.admin)
	req.Header.Set("HX-Request", "true")
	req = testutil.WithChiURLParam(req, "id", id)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	f.h.HandleReview(rec, req)

	if rec.Header().Get("HX-Redirect") == "" {
		t.Fatalf("expected success redirect, got %d:\n%s", rec.Code, rec.Body.String())
	}
	f.svc.mu.Lock()
	defer f.svc.mu.Unlock()
	if f.svc.updates[id] != models.CertificateDisapproved {
		t.Errorf("status sent = %q, want disapproved", f.svc.updates[id])
	}
}

func TestReview_FailureKeepsModalForRetry(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.list(t, "")
	id := f.svc.certs[1].ID.Hex()

	f.modal(t, id, "disapprove")
	f.svc.updateErr = apperr.Transport("Certificate expired", nil)
	f.review(t, id, "action=disapprove&confirm=1")

	got, _ := f.render.Last()
	d := dump(got)
	if got.Name != "certificates_review_modal" || !strings.Contains(d, "ErrMessage:Certificate expired") {
		t.Fatalf("expected modal with error, got %q %s", got.Name, d)
	}
	if !strings.Contains(d, "Verb:Disapprove") {
		t.Error("modal should stay on the disapprove action")
	}

	f.svc.updateErr = nil
	rec := f.review(t, id, "action=disapprove&confirm=1")
	if rec.Header().Get("HX-Redirect") == "" {
		t.Error("retry should succeed")
	}
	if len(f.svc.byStatus(models.CertificateDisapproved)) != 1 {
		t.Error("expected one disapproved certificate")
	}
}

func TestCancel_AllowsOtherAction(t *testing.T) {
	f := newFixture(t, 3, 0)
	f.list(t, "")
	id := f.svc.certs[0].ID.Hex()
	f.modal(t, id, "approve")

	req := testutil.NewAuthenticatedRequest("POST", "/certificates/modal/cancel", f.admin)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	f.h.HandleCancel(rec, req)

	if rec.Code != http.StatusOK || rec.Body.Len() != 0 {
		t.Errorf("expected empty 200, got %d %q", rec.Code, rec.Body.String())
	}
	if rec := f.modal(t, id, "disapprove"); rec.Code != http.StatusOK {
		t.Errorf("modal status = %d after cancel", rec.Code)
	}
}
