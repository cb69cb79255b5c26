// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User types as stored by the recycling platform.
const (
	UserTypeUser     = "user"
	UserTypeRecycler = "recycler"
	UserTypeDelivery = "delivery"
	UserTypeAdmin    = "admin"
)

// AllUserTypes lists the user types in display order.
var AllUserTypes = []string{UserTypeUser, UserTypeRecycler, UserTypeDelivery, UserTypeAdmin}

// User is a platform account (customer, recycler, delivery partner or admin).
//
// NOTE:
//   - NameCI is the folded name used for case/diacritic-insensitive search.
//   - Accounts are created by the platform; the console only reads and deletes them.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci,omitempty" json:"-"`
	Email    string             `bson:"email" json:"email"`
	UserType string             `bson:"user_type" json:"user_type"` // user | recycler | delivery | admin
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// IsAdmin reports whether the account is a platform admin.
func (u User) IsAdmin() bool { return u.UserType == UserTypeAdmin }

// IsValidUserType reports whether t is one of the known user types.
func IsValidUserType(t string) bool {
	for _, v := range AllUserTypes {
		if v == t {
			return true
		}
	}
	return false
}
