// Package normalize canonicalises user-supplied strings before they are
// stored or compared.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name. Case is preserved.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// UserType trims and lowercases a user type.
func UserType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a status filter. "all" means no filter and
// becomes "".
func Status(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return ""
	}
	return s
}

// QueryParam trims a raw query-string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Reason collapses internal whitespace in free-text input such as a
// deletion reason.
func Reason(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
