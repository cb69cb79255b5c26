package platform

import (
	"context"
	"errors"
	"strings"

	userstore "github.com/dalemusser/recycleadmin/internal/app/store/users"
	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/auditlog"
	"github.com/dalemusser/recycleadmin/internal/app/system/normalize"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoUsers implements Users over the platform's users collection.
type MongoUsers struct {
	store *userstore.Store
	audit *auditlog.Logger
	log   *zap.Logger
}

// NewMongoUsers wires the user store with audit logging.
func NewMongoUsers(db *mongo.Database, audit *auditlog.Logger, log *zap.Logger) *MongoUsers {
	return &MongoUsers{store: userstore.New(db), audit: audit, log: log}
}

// FetchUsers returns one page of accounts matching search.
func (u *MongoUsers) FetchUsers(ctx context.Context, page, pageSize int, search string) (paging.Result[models.User], error) {
	res, err := u.store.FetchPage(ctx, page, pageSize, search)
	if err != nil {
		u.log.Warn("fetch users failed", zap.Int("page", page), zap.Error(err))
		return res, apperr.Transport("", err)
	}
	return res, nil
}

// DeleteUser removes a non-admin account. reason must be non-blank and is
// recorded in the audit trail.
func (u *MongoUsers) DeleteUser(ctx context.Context, id, reason string) error {
	reason = normalize.Reason(reason)
	if strings.TrimSpace(reason) == "" {
		return apperr.Validation("Please provide a reason.")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return apperr.Validation("Invalid user id.")
	}

	deleted, err := u.store.Delete(ctx, oid)
	switch {
	case errors.Is(err, userstore.ErrAdminProtected):
		return apperr.Authorization("Admin accounts cannot be deleted.")
	case errors.Is(err, userstore.ErrNotFound):
		return apperr.Transport("This user no longer exists.", err)
	case err != nil:
		u.log.Error("delete user failed", zap.String("user_id", id), zap.Error(err))
		return apperr.Transport("", err)
	}

	u.audit.UserDeleted(ctx, oid, deleted.Email, reason)
	return nil
}

// CountByType returns account counts keyed by user type.
func (u *MongoUsers) CountByType(ctx context.Context) (map[string]int64, error) {
	counts, err := u.store.CountByType(ctx)
	if err != nil {
		return nil, apperr.Transport("", err)
	}
	return counts, nil
}
