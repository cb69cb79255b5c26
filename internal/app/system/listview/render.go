package listview

import (
	"strings"

	"github.com/dalemusser/recycleadmin/internal/app/system/apperr"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
)

// Mode selects which part of a list screen is shown.
type Mode int

const (
	ModeLoading Mode = iota
	ModeError
	ModeEmpty
	ModeTable
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeError:
		return "error"
	case ModeEmpty:
		return "empty"
	case ModeTable:
		return "table"
	default:
		return "unknown"
	}
}

// Pager is the data behind the pagination controls.
type Pager struct {
	CurrentPage  int
	TotalPages   int
	TotalCount   int64
	PrevDisabled bool
	NextDisabled bool
	PrevPage     int
	NextPage     int
	Range        paging.Range
}

// Tab is one filter tab with its count badge.
type Tab struct {
	Key      string
	Label    string
	Count    int64
	HasCount bool
	Active   bool
}

// RenderInput is everything the rendering contract depends on.
type RenderInput[T any] struct {
	Result  *paging.Result[T]
	Loading bool
	Err     error

	PageSize int
	Noun     string // plural, e.g. "users", "certificates"

	// Tabs lists tab keys in display order; ActiveTab is the selected one.
	// TabCounts supplies badge counts for inactive tabs.
	Tabs      []string
	ActiveTab string
	TabCounts map[string]int64

	// ErrorFallback replaces apperr.GenericMessage when the error carries
	// no message of its own.
	ErrorFallback string
}

// View is the renderable state of a list screen.
type View[T any] struct {
	Mode      Mode
	Rows      []T
	Pager     *Pager
	Message   string
	Tabs      []Tab
	ActiveTab string
}

// Render maps fetch state to a View. It is a pure function.
//
// Precedence: loading, then error, then empty, then table. Rows keep the
// order the server returned them in.
func Render[T any](in RenderInput[T]) View[T] {
	v := View[T]{ActiveTab: in.ActiveTab}
	v.Tabs = buildTabs(in)

	switch {
	case in.Loading:
		v.Mode = ModeLoading
	case in.Err != nil:
		v.Mode = ModeError
		v.Message = apperr.Message(in.Err, in.ErrorFallback)
	case in.Result == nil || len(in.Result.Items) == 0:
		v.Mode = ModeEmpty
		v.Message = emptyMessage(in.Noun, in.ActiveTab)
	default:
		v.Mode = ModeTable
		v.Rows = in.Result.Items
		p := NewPager(*in.Result, in.PageSize)
		v.Pager = &p
	}
	return v
}

// NewPager derives pagination controls from a result. "Previous" is
// disabled on page 1 and "Next" on the last page.
func NewPager[T any](res paging.Result[T], pageSize int) Pager {
	total := res.TotalPages
	if total < 1 {
		total = 1
	}
	cur := paging.Clamp(res.CurrentPage, total)
	p := Pager{
		CurrentPage:  cur,
		TotalPages:   total,
		TotalCount:   res.TotalCount,
		PrevDisabled: cur <= 1,
		NextDisabled: cur >= total,
		PrevPage:     cur - 1,
		NextPage:     cur + 1,
		Range:        paging.ComputeRange(cur, paging.NormalizeSize(pageSize), len(res.Items)),
	}
	if p.PrevDisabled {
		p.PrevPage = cur
	}
	if p.NextDisabled {
		p.NextPage = cur
	}
	return p
}

func buildTabs[T any](in RenderInput[T]) []Tab {
	if len(in.Tabs) == 0 {
		return nil
	}
	tabs := make([]Tab, 0, len(in.Tabs))
	for _, key := range in.Tabs {
		t := Tab{Key: key, Label: titleCase(key), Active: key == in.ActiveTab}
		if n, ok := in.TabCounts[key]; ok {
			t.Count, t.HasCount = n, true
		}
		// The freshest count for the active tab is the one just fetched.
		if t.Active && in.Result != nil && in.Err == nil {
			t.Count, t.HasCount = in.Result.TotalCount, true
		}
		tabs = append(tabs, t)
	}
	return tabs
}

func emptyMessage(noun, tab string) string {
	if noun == "" {
		noun = "records"
	}
	if tab != "" {
		return "No " + tab + " " + noun
	}
	return "No " + noun + " found"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
