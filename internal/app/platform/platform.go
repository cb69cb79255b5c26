// Package platform declares the console's view of the recycling platform's
// data services and provides MongoDB-backed implementations.
//
// Every error returned from this package is an *apperr.Error, so handlers
// can show apperr.Message(err, ...) without inspecting driver errors.
package platform

import (
	"context"
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
)

// Users lists and deletes platform accounts.
type Users interface {
	FetchUsers(ctx context.Context, page, pageSize int, search string) (paging.Result[models.User], error)
	DeleteUser(ctx context.Context, id, reason string) error
	CountByType(ctx context.Context) (map[string]int64, error)
}

// Certificates lists and reviews uploaded compliance certificates.
type Certificates interface {
	FetchCertificates(ctx context.Context, page, pageSize int, status string) (paging.Result[models.Certificate], error)
	UpdateCertificateStatus(ctx context.Context, id, status string) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// Accounts resolves the signed-in account.
type Accounts interface {
	CurrentUser(r *http.Request) (*models.User, bool)
}
