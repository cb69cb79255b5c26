package platform

import (
	"net/http"

	userstore "github.com/dalemusser/recycleadmin/internal/app/store/users"
	"github.com/dalemusser/recycleadmin/internal/app/system/auth"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAccounts resolves the session user to the full account record.
type MongoAccounts struct {
	store *userstore.Store
}

// NewMongoAccounts returns an Accounts backed by the users collection.
func NewMongoAccounts(db *mongo.Database) *MongoAccounts {
	return &MongoAccounts{store: userstore.New(db)}
}

// CurrentUser loads the signed-in account, or reports false when there is
// none or it no longer exists.
func (a *MongoAccounts) CurrentUser(r *http.Request) (*models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		return nil, false
	}
	oid, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		return nil, false
	}
	u, err := a.store.GetByID(r.Context(), oid)
	if err != nil {
		return nil, false
	}
	return u, true
}
