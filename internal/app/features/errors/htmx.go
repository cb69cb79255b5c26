// internal/app/features/errors/htmx.go
package errors

import "net/http"

// snippetData backs the inline error snippet swapped into modals.
type snippetData struct {
	Status  int
	Message string
	BackURL string
}

// IsHTMX reports whether r was issued by HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// HTMXError answers an HTMX request with an inline error snippet. For
// regular requests it calls fallback, which usually renders a full page.
func HTMXError(w http.ResponseWriter, r *http.Request, status int, msg string, fallback func()) {
	if !IsHTMX(r) {
		fallback()
		return
	}
	// HTMX does not swap non-2xx responses by default; retarget so the
	// message still appears in the modal body.
	w.Header().Set("HX-Retarget", "#modal-error")
	w.Header().Set("HX-Reswap", "innerHTML")
	w.WriteHeader(status)
	Renderer.RenderSnippet(w, "error_snippet", snippetData{Status: status, Message: msg})
}

// HTMXBadRequest renders a 400 for HTMX, or the bad-request page otherwise.
func HTMXBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	HTMXError(w, r, http.StatusBadRequest, msg, func() {
		RenderBadRequest(w, r, msg, backURL)
	})
}

// HTMXForbidden renders a 403 for HTMX, or the forbidden page otherwise.
func HTMXForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	HTMXError(w, r, http.StatusForbidden, msg, func() {
		RenderForbidden(w, r, msg, backURL)
	})
}

// HTMXNotFound renders a 404 for HTMX, or the not-found page otherwise.
func HTMXNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	HTMXError(w, r, http.StatusNotFound, msg, func() {
		RenderNotFound(w, r, msg, backURL)
	})
}

// HTMXTooManyRequests renders a 429 for HTMX, or the rate-limited page otherwise.
func HTMXTooManyRequests(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	HTMXError(w, r, http.StatusTooManyRequests, msg, func() {
		RenderTooManyRequests(w, r, msg, backURL)
	})
}

// HTMXRedirect sends the browser to url: via HX-Redirect for HTMX requests,
// a 303 otherwise.
func HTMXRedirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
