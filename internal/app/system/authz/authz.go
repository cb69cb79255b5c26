// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's type (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (userType string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.UserType), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is a platform admin.
func IsAdmin(r *http.Request) bool {
	t, _, _, ok := UserCtx(r)
	return ok && t == "admin"
}

// IsRecycler reports whether the current request's user is a recycler.
func IsRecycler(r *http.Request) bool {
	t, _, _, ok := UserCtx(r)
	return ok && t == "recycler"
}

// IsDelivery reports whether the current request's user is a delivery partner.
func IsDelivery(r *http.Request) bool {
	t, _, _, ok := UserCtx(r)
	return ok && t == "delivery"
}
