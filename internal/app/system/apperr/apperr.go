// Package apperr classifies the errors the admin console surfaces to users.
//
// There are three kinds:
//   - Validation: required input is missing; caught before any request is issued.
//   - Transport: the data layer failed; its message is shown verbatim when present.
//   - Authorization: a disallowed action; the UI disables the control, so this
//     only shows up if a request bypasses the rendered page.
//
// Message turns any error into a user-facing string. Messages are stripped of
// markup so a server-provided message can be placed into a page safely.
package apperr

import (
	"errors"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Kind classifies an Error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindTransport
	KindAuthorization
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindAuthorization:
		return "authorization"
	default:
		return "unknown"
	}
}

// GenericMessage is shown when an error carries no usable message.
const GenericMessage = "Something went wrong. Please try again."

// Error is a classified, user-presentable error.
type Error struct {
	Kind    Kind
	Message string // user-facing; may be empty for transport errors
	Err     error  // underlying cause, never shown to users
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Kind.String() + ": " + e.Message
	case e.Err != nil:
		return e.Kind.String() + ": " + e.Err.Error()
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports missing or invalid user input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Transport wraps a data-layer failure. msg is the server-provided
// message, or "" to fall back to the generic message.
func Transport(msg string, cause error) error {
	return &Error{Kind: KindTransport, Message: msg, Err: cause}
}

// Authorization reports a disallowed action.
func Authorization(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// Is reports whether err (or anything it wraps) is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

var strict = bluemonday.StrictPolicy()

// Message returns the user-facing text for err.
//
// Classified errors yield their Message. Unclassified errors are treated as
// transport failures and yield fallback (or GenericMessage when fallback is
// empty) so driver internals never reach the page.
func Message(err error, fallback string) string {
	if fallback == "" {
		fallback = GenericMessage
	}
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if msg := clean(e.Message); msg != "" {
			return msg
		}
	}
	return fallback
}

// clean strips markup and collapses whitespace. The result is plain text;
// templates escape it again on output.
func clean(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
