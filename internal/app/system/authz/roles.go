// internal/app/system/authz/roles.go
package authz

import (
	"net/http"
	"strings"
)

// HasAnyUserType reports whether the current request's user has any of the given types.
// Returns false if no user is present (i.e., not signed in).
func HasAnyUserType(r *http.Request, types ...string) bool {
	cur, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range types {
		if cur == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// UserType returns the current user's type (lowercased) and whether a user is present.
func UserType(r *http.Request) (string, bool) {
	t, _, _, ok := UserCtx(r)
	return t, ok
}
