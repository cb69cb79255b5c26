package navigation

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestItems_ByUserType(t *testing.T) {
	tests := []struct {
		userType string
		want     []string
	}{
		{"admin", []string{"Dashboard", "Users", "Certificates", "Profile"}},
		{"Recycler", []string{"Dashboard", "Profile"}},
		{"delivery", []string{"Dashboard", "Profile"}},
		{"user", []string{"Dashboard", "Profile"}},
		{"", nil},
		{"visitor", nil},
	}

	for _, tt := range tests {
		t.Run(tt.userType, func(t *testing.T) {
			items := Items(tt.userType, "/")
			var got []string
			for _, it := range items {
				got = append(got, it.Label)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Items(%q) = %v, want %v", tt.userType, got, tt.want)
			}
		})
	}
}

func TestItems_Active(t *testing.T) {
	items := Items("admin", "/certificates?status=approved")
	for _, it := range items {
		want := it.Href == "/certificates"
		if it.Active != want {
			t.Errorf("%s active = %v, want %v", it.Label, it.Active, want)
		}
	}

	// The shared table must not be mutated by highlighting.
	again := Items("admin", "/users/abc/delete_modal")
	for _, it := range again {
		if it.Href == "/certificates" && it.Active {
			t.Error("certificates should not stay active")
		}
		if it.Href == "/users" && !it.Active {
			t.Error("users should be active for a subpath")
		}
	}

	// Prefix without a slash boundary is not ownership.
	for _, it := range Items("admin", "/usersettings") {
		if it.Active {
			t.Errorf("%s should not be active for /usersettings", it.Label)
		}
	}
}

func TestSafeBackURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		opts   BackURLOptions
		want   string
	}{
		{"valid return", "/x?return=/users?page=2", UsersBackURL, "/users?page=2"},
		{"wrong prefix", "/x?return=/certificates", UsersBackURL, "/users"},
		{"excluded subpath", "/x?return=/users/abc/delete", UsersBackURL, "/users"},
		{"external url", "/x?return=https://evil.example.com/users", UsersBackURL, "/users"},
		{"fallback keeps tab", "/x?status=approved", CertificatesBackURL, "/certificates?status=approved"},
		{"fallback ignores all", "/x?status=all", CertificatesBackURL, "/certificates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if got := SafeBackURL(req, tt.opts); got != tt.want {
				t.Errorf("SafeBackURL = %q, want %q", got, tt.want)
			}
		})
	}
}
