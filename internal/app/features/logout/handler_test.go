package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/features/logout"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/app/system/console"
	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.uber.org/zap"
)

func newSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	return sm
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	// nil registry and audit logger are allowed
	handler := logout.NewHandler(newSessionManager(t), nil, nil, zap.NewNop())

	req := testutil.NewAuthenticatedRequest("POST", "/logout", testutil.AdminUser())
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/" {
		t.Errorf("Location: got %q, want %q", location, "/")
	}
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestServeLogout_HTMX_ReturnsHXRedirect(t *testing.T) {
	handler := logout.NewHandler(newSessionManager(t), nil, nil, zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if got := rec.Header().Get("HX-Redirect"); got != "/" {
		t.Errorf("HX-Redirect: got %q, want %q", got, "/")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeLogout_DropsConsoleState(t *testing.T) {
	logger := zap.NewNop()
	sm := newSessionManager(t)
	reg := console.NewRegistry(time.Minute, logger)
	t.Cleanup(reg.Close)
	handler := logout.NewHandler(sm, reg, nil, logger)

	// Establish a console id in the cookie and a cached console for it.
	setupReq := httptest.NewRequest("GET", "/users", nil)
	setupRec := httptest.NewRecorder()
	id, err := sm.ConsoleID(setupRec, setupReq)
	if err != nil {
		t.Fatalf("ConsoleID: %v", err)
	}
	reg.Get(id)
	if reg.Len() != 1 {
		t.Fatalf("registry holds %d sessions, want 1", reg.Len())
	}

	req := testutil.NewAuthenticatedRequest("POST", "/logout", testutil.AdminUser())
	for _, c := range setupRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if reg.Len() != 0 {
		t.Error("console state should be dropped on logout")
	}
}
