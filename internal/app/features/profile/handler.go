// internal/app/features/profile/handler.go
package profile

import (
	uierrors "github.com/dalemusser/recycleadmin/internal/app/features/errors"
	"github.com/dalemusser/recycleadmin/internal/app/platform"
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler owns the profile page.
type Handler struct {
	Accounts platform.Accounts
	Render   viewdata.Renderer
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a Handler that resolves the signed-in account
// through accounts.
func NewHandler(accounts platform.Accounts, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: accounts,
		Render:   viewdata.Templates{},
		Log:      logger,
		ErrLog:   errLog,
	}
}
