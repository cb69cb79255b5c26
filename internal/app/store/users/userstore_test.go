package userstore_test

import (
	"errors"
	"fmt"
	"testing"

	userstore "github.com/dalemusser/recycleadmin/internal/app/store/users"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_FetchPage_OrdersAndPaginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 12; i++ {
		fixtures.CreateRecycler(ctx, fmt.Sprintf("Recycler %02d", i), fmt.Sprintf("r%02d@example.com", i))
	}

	res, err := store.FetchPage(ctx, 1, 10, "")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if res.TotalCount != 12 || res.TotalPages != 2 || res.CurrentPage != 1 {
		t.Errorf("got total=%d pages=%d page=%d, want 12/2/1", res.TotalCount, res.TotalPages, res.CurrentPage)
	}
	if len(res.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(res.Items))
	}
	if res.Items[0].Name != "Recycler 00" {
		t.Errorf("expected name order, first = %q", res.Items[0].Name)
	}

	res, err = store.FetchPage(ctx, 2, 10, "")
	if err != nil {
		t.Fatalf("FetchPage page 2 failed: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("expected 2 items on page 2, got %d", len(res.Items))
	}
}

func TestStore_FetchPage_ClampsPastEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateRecycler(ctx, "Only One", "one@example.com")

	res, err := store.FetchPage(ctx, 9, 10, "")
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if res.CurrentPage != 1 || len(res.Items) != 1 {
		t.Errorf("expected clamp to page 1 with 1 item, got page %d with %d", res.CurrentPage, len(res.Items))
	}
}

func TestStore_FetchPage_Search(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "José Núñez", "jose@example.com", models.UserTypeDelivery)
	fixtures.CreateUser(ctx, "Maria Lopez", "maria@recycle.org", models.UserTypeUser)
	fixtures.CreateUser(ctx, "Paul (a.k.a. P)", "paul@example.com", models.UserTypeUser)

	tests := []struct {
		search string
		want   int
	}{
		{"JOSÉ", 1},      // folded name prefix
		{"MARIA", 1},     // case-insensitive
		{"maria@rec", 1}, // email prefix
		{"paul (a", 1},   // regex metacharacters are literal
		{"  ", 3},        // blank search matches all
		{"nobody", 0},
	}

	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			res, err := store.FetchPage(ctx, 1, 10, tt.search)
			if err != nil {
				t.Fatalf("FetchPage failed: %v", err)
			}
			if int(res.TotalCount) != tt.want {
				t.Errorf("search %q: got %d, want %d", tt.search, res.TotalCount, tt.want)
			}
		})
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateRecycler(ctx, "Spam Account", "spam@example.com")

	deleted, err := store.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted.Email != "spam@example.com" {
		t.Errorf("expected deleted record to be returned, got %q", deleted.Email)
	}

	if _, err := store.GetByID(ctx, u.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := store.Delete(ctx, u.ID); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := store.Delete(ctx, primitive.NewObjectID()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestStore_Delete_AdminProtected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Ada Admin", "ada@example.com")

	if _, err := store.Delete(ctx, admin.ID); !errors.Is(err, userstore.ErrAdminProtected) {
		t.Fatalf("expected ErrAdminProtected, got %v", err)
	}
	if _, err := store.GetByID(ctx, admin.ID); err != nil {
		t.Errorf("admin must still exist: %v", err)
	}
}

func TestStore_CountByType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateAdmin(ctx, "A", "a@example.com")
	fixtures.CreateRecycler(ctx, "R1", "r1@example.com")
	fixtures.CreateRecycler(ctx, "R2", "r2@example.com")

	counts, err := store.CountByType(ctx)
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	want := map[string]int64{"admin": 1, "recycler": 2, "delivery": 0, "user": 0}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s: got %d, want %d", k, counts[k], v)
		}
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateRecycler(ctx, "Rita", "rita@example.com")
	f := userstore.NewFetcher(db)

	su := f.FetchUser(ctx, u.ID.Hex())
	if su == nil {
		t.Fatal("expected session user")
	}
	if su.UserType != "recycler" || su.Email != "rita@example.com" {
		t.Errorf("unexpected session user %+v", su)
	}
	if f.FetchUser(ctx, "not-an-id") != nil {
		t.Error("expected nil for invalid id")
	}
	if f.FetchUser(ctx, primitive.NewObjectID().Hex()) != nil {
		t.Error("expected nil for unknown id")
	}
}
