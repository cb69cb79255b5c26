package navigation

import "strings"

// Item is one entry in the top navigation bar.
type Item struct {
	Label  string
	Href   string
	Active bool
}

// entries lists the navigation bar per user type, in display order.
var entries = map[string][]Item{
	"admin": {
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Users", Href: "/users"},
		{Label: "Certificates", Href: "/certificates"},
		{Label: "Profile", Href: "/profile"},
	},
	"recycler": {
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Profile", Href: "/profile"},
	},
	"delivery": {
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Profile", Href: "/profile"},
	},
	"user": {
		{Label: "Dashboard", Href: "/dashboard"},
		{Label: "Profile", Href: "/profile"},
	},
}

// Items returns the navigation entries for userType with the entry owning
// currentPath marked active. Unknown or empty types (signed-out visitors)
// get no entries.
func Items(userType, currentPath string) []Item {
	base := entries[strings.ToLower(strings.TrimSpace(userType))]
	out := make([]Item, len(base))
	copy(out, base)
	for i := range out {
		out[i].Active = owns(out[i].Href, currentPath)
	}
	return out
}

// owns reports whether path is href itself or one of its subpaths.
func owns(href, path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return path == href || strings.HasPrefix(path, href+"/")
}
