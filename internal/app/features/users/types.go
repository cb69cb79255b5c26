// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/recycleadmin/internal/app/system/viewdata"
	"github.com/dalemusser/recycleadmin/internal/domain/models"
)

// userRow is one line of the users table.
type userRow struct {
	ID        string
	Name      string
	Email     string
	UserType  string
	Phone     string
	Joined    string
	CanDelete bool
	Selected  bool
}

// listData is the users list page.
type listData struct {
	viewdata.ListVM[models.User]
	Rows          []userRow
	SelectedCount int
}

// deleteModalData backs the delete confirmation modal.
type deleteModalData struct {
	User       userRow
	Reason     string
	CanSubmit  bool
	Submitting bool
	ErrMessage string
	ReturnURL  string
}
