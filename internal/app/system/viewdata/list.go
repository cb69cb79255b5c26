package viewdata

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/recycleadmin/internal/app/system/listview"
)

// TabLink is a list tab with its link.
type TabLink struct {
	listview.Tab
	Href string
}

// ListVM is the page model shared by list screens. Links are complete
// "path?query" strings so templates never assemble query strings.
type ListVM[T any] struct {
	BaseVM
	List listview.View[T]

	Search     string
	Tabs       []TabLink
	PrevURL    string
	NextURL    string
	RefreshURL string
	// SelfURL is the list URL for the current state, used as the return
	// target of row actions.
	SelfURL string
}

// NewListVM builds the page model for a list screen at path from the
// rendered view and the store's current query. tabKey names the filter the
// tabs drive ("" for screens without tabs).
func NewListVM[T any](r *http.Request, title, backDefault, path string, view listview.View[T], q listview.Query, tabKey string) ListVM[T] {
	vm := ListVM[T]{
		BaseVM: NewBaseVM(r, title, backDefault),
		List:   view,
		Search: q.Search,
	}

	vm.SelfURL = link(path, q.Values())

	refresh := q.Values()
	refresh.Set("refresh", "1")
	vm.RefreshURL = link(path, refresh)

	if p := view.Pager; p != nil {
		if !p.PrevDisabled {
			vm.PrevURL = pageLink(path, q, p.PrevPage)
		}
		if !p.NextDisabled {
			vm.NextURL = pageLink(path, q, p.NextPage)
		}
	}

	for _, t := range view.Tabs {
		v := url.Values{}
		v.Set(tabKey, t.Key)
		if q.Search != "" {
			v.Set("search", q.Search)
		}
		vm.Tabs = append(vm.Tabs, TabLink{Tab: t, Href: link(path, v)})
	}
	return vm
}

func pageLink(path string, q listview.Query, page int) string {
	v := q.Values()
	v.Set("page", strconv.Itoa(page))
	return link(path, v)
}

func link(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
