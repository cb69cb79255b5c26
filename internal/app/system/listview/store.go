// Package listview holds the client-side state of a paginated list screen
// (page, search text, filter/tab, row selection) and the pure mapping from
// a fetched page to the renderable view.
//
// Each resource kind (users, certificates) gets its own Store so state never
// leaks between screens. A Store does no I/O; listeners registered with
// OnChange (typically a query binding) react to query changes.
package listview

import (
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/dalemusser/recycleadmin/internal/app/system/paging"
)

// Query is the list query state owned by a Store.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filter   map[string]string
}

// Key is the comparable form of a Query. Two queries with the same values
// produce equal keys regardless of map identity.
type Key struct {
	Page     int
	PageSize int
	Search   string
	Filter   string
}

// Key returns the comparable form of q.
func (q Query) Key() Key {
	return Key{
		Page:     q.Page,
		PageSize: q.PageSize,
		Search:   q.Search,
		Filter:   canonicalFilter(q.Filter),
	}
}

// FilterValue returns the filter value for name, or "".
func (q Query) FilterValue(name string) string {
	return q.Filter[name]
}

// FilterValue returns the filter value for name as encoded in the key.
func (k Key) FilterValue(name string) string {
	v, _ := url.ParseQuery(k.Filter)
	return v.Get(name)
}

func (q Query) clone() Query {
	out := q
	out.Filter = make(map[string]string, len(q.Filter))
	for k, v := range q.Filter {
		out.Filter[k] = v
	}
	return out
}

// canonicalFilter encodes a filter map with sorted keys.
func canonicalFilter(f map[string]string) string {
	if len(f) == 0 {
		return ""
	}
	v := make(url.Values, len(f))
	for k, val := range f {
		v.Set(k, val)
	}
	return v.Encode()
}

// Store holds the query and selection state for one list screen.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	pageSize  int
	q         Query
	version   uint64 // bumped on every query change
	selected  map[string]struct{}
	listeners []func(Query)

	// notifyMu orders listener calls; notified is the last version delivered.
	notifyMu sync.Mutex
	notified uint64
}

// New returns a Store with default state (page 1, empty search, empty
// filter, empty selection) and the given page size.
func New(pageSize int) *Store {
	s := &Store{pageSize: paging.NormalizeSize(pageSize)}
	s.q = s.initial()
	s.selected = map[string]struct{}{}
	return s
}

func (s *Store) initial() Query {
	return Query{Page: 1, PageSize: s.pageSize, Filter: map[string]string{}}
}

// OnChange registers fn to be called with the new query after every query
// change. Selection changes do not notify. Listeners are called one change
// at a time, and the last call always carries the current query; fn must
// not call setters on the same Store.
func (s *Store) OnChange(fn func(Query)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Query returns a copy of the current query state.
func (s *Store) Query() Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.q.clone()
}

// SetSearchQuery sets the search text and resets the page to 1.
// An empty string means "no search".
func (s *Store) SetSearchQuery(q string) {
	s.update(func(cur *Query) {
		cur.Search = q
		cur.Page = 1
	})
}

// SetPage sets the current page. Bounds are the caller's concern; the
// rendered pager never links outside [1, TotalPages].
func (s *Store) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.update(func(cur *Query) {
		cur.Page = n
	})
}

// SetFilter shallow-merges partial into the filter and resets the page to 1.
// An empty value removes the key.
func (s *Store) SetFilter(partial map[string]string) {
	s.update(func(cur *Query) {
		for k, v := range partial {
			if v == "" {
				delete(cur.Filter, k)
				continue
			}
			cur.Filter[k] = v
		}
		cur.Page = 1
	})
}

// Reset restores page 1, empty search, empty filter and empty selection.
func (s *Store) Reset() {
	s.mu.Lock()
	s.selected = map[string]struct{}{}
	s.mu.Unlock()
	s.update(func(cur *Query) {
		*cur = s.initial()
	})
}

// ToggleSelection adds id to the selection if absent and removes it if present.
func (s *Store) ToggleSelection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return
	}
	s.selected[id] = struct{}{}
}

// IsSelected reports whether id is in the selection.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Selection returns the selected ids in sorted order.
func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// update applies fn under the lock, then notifies listeners outside it.
func (s *Store) update(fn func(*Query)) {
	s.mu.Lock()
	fn(&s.q)
	s.version++
	s.mu.Unlock()

	s.notify()
}

// notify delivers the current query to listeners. A caller that finds a
// newer change already delivered returns without calling anyone, so a slow
// listener can never deliver a stale query after a fresh one.
func (s *Store) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.RLock()
	version := s.version
	snap := s.q.clone()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	if version <= s.notified {
		return
	}
	s.notified = version
	for _, l := range listeners {
		l(snap.clone())
	}
}

// ApplyValues maps request query parameters onto the store in a single
// update, so listeners see one change. Only parameters that are present are
// applied, so a bare URL keeps the screen's previous state. The steps follow
// the setters' semantics in this order (search and filters reset the page,
// so an explicit page wins):
//
//	?reset=1            Reset
//	?search=<text>      SetSearchQuery
//	?<filterKey>=<v>    SetFilter (empty value removes the key)
//	?page=<n>           SetPage
func (s *Store) ApplyValues(v url.Values, filterKeys ...string) {
	reset := v.Get("reset") == "1"
	_, hasSearch := v["search"]
	partial := map[string]string{}
	for _, k := range filterKeys {
		if _, ok := v[k]; ok {
			partial[k] = strings.ToLower(strings.TrimSpace(v.Get(k)))
		}
	}
	page := 0
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n >= 1 {
		page = n
	}
	if !reset && !hasSearch && len(partial) == 0 && page == 0 {
		return
	}

	s.update(func(cur *Query) {
		if reset {
			*cur = s.initial()
			s.selected = map[string]struct{}{}
		}
		if hasSearch {
			cur.Search = strings.TrimSpace(v.Get("search"))
			cur.Page = 1
		}
		if len(partial) > 0 {
			for k, val := range partial {
				if val == "" {
					delete(cur.Filter, k)
					continue
				}
				cur.Filter[k] = val
			}
			cur.Page = 1
		}
		if page > 0 {
			cur.Page = page
		}
	})
}

// Values encodes q as query parameters, the inverse of ApplyValues.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	for k, val := range q.Filter {
		v.Set(k, val)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}
