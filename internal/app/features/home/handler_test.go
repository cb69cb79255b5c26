package home_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/recycleadmin/internal/app/features/home"
	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() (*home.Handler, *testutil.RenderRecorder) {
	h := home.NewHandler("https://platform.example.com/login", zap.NewNop())
	rr := &testutil.RenderRecorder{}
	h.Render = rr
	return h, rr
}

func TestServeRoot_Unauthenticated(t *testing.T) {
	h, rr := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeRoot(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	got, ok := rr.Last()
	if !ok || got.Name != "home" {
		t.Fatalf("rendered %q, want home", got.Name)
	}
	if dump := fmt.Sprintf("%+v", got.Data); !strings.Contains(dump, "LoginURL:https://platform.example.com/login") {
		t.Errorf("sign-in link missing:\n%s", dump)
	}
}

func TestServeRoot_AuthenticatedUser(t *testing.T) {
	h, rr := newTestHandler()

	rec := httptest.NewRecorder()
	h.ServeRoot(rec, testutil.NewAuthenticatedRequest("GET", "/", testutil.RecyclerUser()))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want /dashboard", loc)
	}
	if _, ok := rr.Last(); ok {
		t.Error("nothing should render for signed-in users")
	}
}
