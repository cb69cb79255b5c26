package errors

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/recycleadmin/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func useRecorder(t *testing.T) *testutil.RenderRecorder {
	t.Helper()
	rec := &testutil.RenderRecorder{}
	prev := Renderer
	Renderer = rec
	t.Cleanup(func() { Renderer = prev })
	return rec
}

func TestHTMXRedirect(t *testing.T) {
	tests := []struct {
		name       string
		htmx       bool
		wantStatus int
		wantHeader string
		wantLoc    string
	}{
		{"htmx", true, http.StatusOK, "/users", ""},
		{"plain", false, http.StatusSeeOther, "", "/users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/users/abc/delete", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()

			HTMXRedirect(rec, req, "/users")

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("HX-Redirect"); got != tt.wantHeader {
				t.Errorf("HX-Redirect = %q, want %q", got, tt.wantHeader)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLoc {
				t.Errorf("Location = %q, want %q", got, tt.wantLoc)
			}
		})
	}
}

func TestHTMXError_FallbackForPlainRequests(t *testing.T) {
	req := httptest.NewRequest("GET", "/users/abc/delete_modal", nil)
	rec := httptest.NewRecorder()

	called := false
	HTMXError(rec, req, http.StatusNotFound, "User not found.", func() {
		called = true
		rec.WriteHeader(http.StatusTeapot)
	})

	if !called {
		t.Fatal("expected fallback to run for a non-HTMX request")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want fallback's status", rec.Code)
	}
	if rec.Header().Get("HX-Retarget") != "" {
		t.Error("plain requests must not be retargeted")
	}
}

func TestIsHTMX(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if IsHTMX(req) {
		t.Error("expected false without header")
	}
	req.Header.Set("HX-Request", "true")
	if !IsHTMX(req) {
		t.Error("expected true with HX-Request header")
	}
}

func TestHTMXNotFound(t *testing.T) {
	tests := []struct {
		name        string
		htmx        bool
		wantName    string
		wantSnippet bool
	}{
		{"htmx gets snippet", true, "error_snippet", true},
		{"plain gets page", false, "error_page", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := useRecorder(t)
			req := httptest.NewRequest("GET", "/users/abc/delete_modal", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := httptest.NewRecorder()

			HTMXNotFound(rec, req, "User not found.", "/users")

			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
			got, ok := rr.Last()
			if !ok {
				t.Fatal("nothing rendered")
			}
			if got.Name != tt.wantName || got.Snippet != tt.wantSnippet {
				t.Errorf("rendered %q (snippet=%v), want %q (snippet=%v)", got.Name, got.Snippet, tt.wantName, tt.wantSnippet)
			}
			switch d := got.Data.(type) {
			case snippetData:
				if d.Message != "User not found." {
					t.Errorf("Message = %q", d.Message)
				}
			case pageData:
				if d.Message != "User not found." || d.BackURL != "/users" {
					t.Errorf("unexpected page data: %+v", d)
				}
			default:
				t.Errorf("unexpected data type %T", got.Data)
			}
		})
	}
}

func TestHTMXTooManyRequests(t *testing.T) {
	rr := useRecorder(t)
	req := httptest.NewRequest("POST", "/certificates/abc/review", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	HTMXTooManyRequests(rec, req, "Slow down.", "/dashboard")

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if got := rec.Header().Get("HX-Retarget"); got != "#modal-error" {
		t.Errorf("HX-Retarget = %q, want #modal-error", got)
	}
	if got, ok := rr.Last(); !ok || got.Name != "error_snippet" {
		t.Errorf("rendered %+v, want error_snippet", got)
	}
}

func TestErrorLogger_LogServerError(t *testing.T) {
	useRecorder(t)
	core, logs := observer.New(zapcore.DebugLevel)
	el := NewErrorLogger(zap.New(core))

	req := httptest.NewRequest("GET", "/certificates", nil)
	rec := httptest.NewRecorder()

	el.LogServerError(rec, req, "certificates: fetch failed", stderrors.New("connection refused"), "", "/")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	entries := logs.FilterMessage("certificates: fetch failed").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["path"] != "/certificates" {
		t.Errorf("path field = %v", entries[0].ContextMap()["path"])
	}
}
