// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it links to LoginURL.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = LoginURL
	}
	renderPage(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderPage(w, r, http.StatusForbidden, "Access denied", msg, backURL)
}

// RenderNotFound shows the not-found page with a message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderPage(w, r, http.StatusNotFound, "Not found", msg, backURL)
}

// RenderBadRequest shows the bad-request page with a message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderPage(w, r, http.StatusBadRequest, "Bad request", msg, backURL)
}

// RenderServerError shows the generic server-error page. msg must already be
// safe to show to users; raw errors belong in the log.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong. Please try again."
	}
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderPage(w, r, http.StatusInternalServerError, "Something went wrong", msg, backURL)
}

// RenderTooManyRequests shows the rate-limited page with a message.
func RenderTooManyRequests(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	renderPage(w, r, http.StatusTooManyRequests, "Slow down", msg, backURL)
}
