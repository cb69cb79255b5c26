// Package console assembles the list-view building blocks into one
// controller per list screen and keeps those controllers per browser
// session.
//
// Wiring per screen:
//
//	listview.Store --OnChange--> binding.Set(query.Key())
//	mutation.Flow  --OnSuccess-> binding.Refresh() + badge refresh
//	binding.Snapshot + listview.Render -> View
package console

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dalemusser/recycleadmin/internal/app/system/binding"
	"github.com/dalemusser/recycleadmin/internal/app/system/listview"
	"github.com/dalemusser/recycleadmin/internal/app/system/mutation"
	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
	"go.uber.org/zap"
)

// Config describes one list screen.
type Config[T any] struct {
	Name     string // log label, e.g. "users"
	Noun     string // plural noun for empty messages
	PageSize int

	// FilterKeys are the query parameters mapped onto the store's filter.
	FilterKeys []string
	// TabKey is the filter key the tabs drive; Tabs lists its values in
	// display order. The first tab is active when the filter is unset.
	TabKey string
	Tabs   []string

	Fetch  binding.Fetcher[listview.Key, paging.Result[T]]
	Counts func(ctx context.Context) (map[string]int64, error) // tab badges, optional

	ErrorFallback string

	// Context is the parent of every fetch the controller issues.
	Context context.Context
	Logger  *zap.Logger
}

// Controller is one list screen's state for one session.
type Controller[T any] struct {
	cfg     Config[T]
	store   *listview.Store
	results *binding.Binding[listview.Key, paging.Result[T]]
	counts  *binding.Binding[int, map[string]int64]
	flows   map[mutation.Action]*mutation.Flow[T]
	log     *zap.Logger
}

// NewController builds the controller and issues the first fetch.
func NewController[T any](cfg Config[T]) *Controller[T] {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller[T]{
		cfg:   cfg,
		store: listview.New(cfg.PageSize),
		flows: map[mutation.Action]*mutation.Flow[T]{},
		log:   log,
	}
	c.results = binding.New(cfg.Fetch,
		binding.WithContext(cfg.Context),
		binding.WithLogger(log),
		binding.WithName(cfg.Name))
	if cfg.Counts != nil {
		c.counts = binding.New[int, map[string]int64](func(ctx context.Context, _ int) (map[string]int64, error) {
			return cfg.Counts(ctx)
		},
			binding.WithContext(cfg.Context),
			binding.WithLogger(log),
			binding.WithName(cfg.Name+"-counts"))
		c.counts.Set(0)
	}

	c.store.OnChange(func(q listview.Query) {
		c.results.Set(q.Key())
	})
	c.results.Set(c.store.Query().Key())
	return c
}

// Store returns the screen's query store.
func (c *Controller[T]) Store() *listview.Store { return c.store }

// Results returns the screen's query binding.
func (c *Controller[T]) Results() *binding.Binding[listview.Key, paging.Result[T]] {
	return c.results
}

// AddFlow registers a row action. A successful submit refreshes the list
// and the tab badges.
func (c *Controller[T]) AddFlow(p mutation.Policy[T], exec mutation.Executor) *mutation.Flow[T] {
	f := mutation.New(p, exec, c.log.With(zap.String("list", c.cfg.Name)))
	f.OnSuccess(func(mutation.Request) { c.Refresh() })
	c.flows[p.Action] = f
	return f
}

// Flow returns the flow registered for action, or nil.
func (c *Controller[T]) Flow(action mutation.Action) *mutation.Flow[T] {
	return c.flows[action]
}

// Refresh re-fetches the current page and the badges.
func (c *Controller[T]) Refresh() {
	c.results.Refresh()
	if c.counts != nil {
		c.counts.Refresh()
	}
}

// Apply maps request parameters onto the store. A bare page change past the
// last known page is clamped first, and ?refresh=1 forces a re-fetch. The
// clamp only trusts a page count fetched for the current search and filter.
func (c *Controller[T]) Apply(v url.Values) {
	if p, err := strconv.Atoi(v.Get("page")); err == nil && !c.changesQuery(v) {
		if snap := c.results.Snapshot(); snap.Data != nil && sameResultSet(snap.DataKey, c.store.Query().Key()) {
			if clamped := paging.Clamp(p, snap.Data.TotalPages); clamped != p {
				v = cloneValues(v)
				v.Set("page", strconv.Itoa(clamped))
			}
		}
	}
	c.store.ApplyValues(v, c.cfg.FilterKeys...)
	if v.Get("refresh") == "1" {
		c.Refresh()
	}
}

// ActiveTab returns the selected tab, defaulting to the first.
func (c *Controller[T]) ActiveTab() string {
	if len(c.cfg.Tabs) == 0 {
		return ""
	}
	if v := c.store.Query().FilterValue(c.cfg.TabKey); v != "" {
		return v
	}
	return c.cfg.Tabs[0]
}

// View waits for in-flight fetches (bounded by ctx) and renders the
// current state. If ctx ends first the view is in loading mode.
func (c *Controller[T]) View(ctx context.Context) listview.View[T] {
	// Re-sync with the store so the rendered rows always match its query.
	c.results.Set(c.store.Query().Key())
	_ = c.results.Await(ctx)
	var tabCounts map[string]int64
	if c.counts != nil {
		_ = c.counts.Await(ctx)
		if cs := c.counts.Snapshot(); cs.Data != nil {
			tabCounts = *cs.Data
		}
	}

	snap := c.results.Snapshot()
	return listview.Render(listview.RenderInput[T]{
		Result:        snap.Data,
		Loading:       snap.Loading || (snap.Data == nil && snap.Err == nil),
		Err:           snap.Err,
		PageSize:      c.store.Query().PageSize,
		Noun:          c.cfg.Noun,
		Tabs:          c.cfg.Tabs,
		ActiveTab:     c.ActiveTab(),
		TabCounts:     tabCounts,
		ErrorFallback: c.cfg.ErrorFallback,
	})
}

// Find returns the row on the current page whose id matches, using idOf.
func (c *Controller[T]) Find(id string, idOf func(T) string) (T, bool) {
	var zero T
	snap := c.results.Snapshot()
	if snap.Data == nil {
		return zero, false
	}
	for _, it := range snap.Data.Items {
		if idOf(it) == id {
			return it, true
		}
	}
	return zero, false
}

// changesQuery reports whether v carries anything besides a page change, in
// which case the last known page count no longer applies.
func (c *Controller[T]) changesQuery(v url.Values) bool {
	if v.Get("reset") == "1" {
		return true
	}
	if _, ok := v["search"]; ok && v.Get("search") != c.store.Query().Search {
		return true
	}
	cur := c.store.Query()
	for _, k := range c.cfg.FilterKeys {
		if _, ok := v[k]; ok && v.Get(k) != cur.FilterValue(k) {
			return true
		}
	}
	return false
}

// sameResultSet reports whether a and b differ at most in page, so a page
// count for one holds for the other.
func sameResultSet(a, b listview.Key) bool {
	a.Page, b.Page = 0, 0
	return a == b
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
