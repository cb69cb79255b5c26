package certificatestore_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	certificatestore "github.com/dalemusser/recycleadmin/internal/app/store/certificates"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_FetchPage_ByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		fixtures.CreateCertificate(ctx, fmt.Sprintf("P-%02d", i), models.CertificatePending, base.Add(time.Duration(i)*time.Second))
	}
	fixtures.CreateCertificate(ctx, "A-01", models.CertificateApproved, base)

	res, err := store.FetchPage(ctx, 1, 10, "pending")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if res.TotalCount != 25 || res.TotalPages != 3 {
		t.Errorf("got total=%d pages=%d, want 25/3", res.TotalCount, res.TotalPages)
	}
	if len(res.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(res.Items))
	}
	if res.Items[0].CertificateNumber != "P-24" {
		t.Errorf("expected newest first, got %q", res.Items[0].CertificateNumber)
	}

	res, err = store.FetchPage(ctx, 3, 10, "pending")
	if err != nil {
		t.Fatalf("FetchPage page 3 failed: %v", err)
	}
	if len(res.Items) != 5 {
		t.Errorf("expected 5 items on last page, got %d", len(res.Items))
	}

	all, err := store.FetchPage(ctx, 1, 10, "all")
	if err != nil {
		t.Fatalf("FetchPage all failed: %v", err)
	}
	if all.TotalCount != 26 {
		t.Errorf("expected 26 certificates overall, got %d", all.TotalCount)
	}

	if _, err := store.FetchPage(ctx, 1, 10, "expired"); !errors.Is(err, certificatestore.ErrBadStatus) {
		t.Errorf("expected ErrBadStatus, got %v", err)
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cert := fixtures.CreateCertificate(ctx, "C-1", models.CertificatePending, time.Now().Add(-time.Minute))

	updated, err := store.UpdateStatus(ctx, cert.ID, "approved")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != models.CertificateApproved {
		t.Errorf("expected approved, got %q", updated.Status)
	}
	if !updated.UpdatedAt.After(cert.UpdatedAt) {
		t.Error("expected updated_at to advance")
	}

	if _, err := store.UpdateStatus(ctx, cert.ID, "approved"); !errors.Is(err, certificatestore.ErrAlreadyReviewed) {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
	if _, err := store.UpdateStatus(ctx, cert.ID, "pending"); !errors.Is(err, certificatestore.ErrBadStatus) {
		t.Errorf("expected ErrBadStatus for pending, got %v", err)
	}
	if _, err := store.UpdateStatus(ctx, primitive.NewObjectID(), "disapproved"); !errors.Is(err, certificatestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_CountByStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := certificatestore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	now := time.Now()
	fixtures.CreateCertificate(ctx, "P-1", models.CertificatePending, now)
	fixtures.CreateCertificate(ctx, "P-2", models.CertificatePending, now)
	fixtures.CreateCertificate(ctx, "D-1", models.CertificateDisapproved, now)

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	want := map[string]int64{"pending": 2, "approved": 0, "disapproved": 1}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s: got %d, want %d", k, counts[k], v)
		}
	}
}
