// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/recycleadmin/internal/app/system/authz"
	"github.com/dalemusser/recycleadmin/internal/app/system/navigation"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// SiteName is shown in the navigation bar and page titles.
const SiteName = "Recycle Admin"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	UserType   string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Nav holds the navigation bar entries for the user's type.
	Nav []navigation.Item
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	userType, name, _, signedIn := authz.UserCtx(r)
	current := httpnav.CurrentPath(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		UserType:    userType,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: current,
	}
	if signedIn {
		vm.Nav = navigation.Items(userType, r.URL.Path)
	}
	return vm
}
