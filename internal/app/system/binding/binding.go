// Package binding ties a comparable query key to an asynchronously fetched
// value and exposes {data, loading, error} for rendering.
//
// Semantics:
//   - Set re-fetches only when the key changes by value.
//   - Refresh re-fetches the current key (manual retry, post-mutation invalidation).
//   - While a fetch is in flight the previous data stays visible.
//   - A failed fetch sets Err and keeps the last successful data. There is
//     no automatic retry.
//   - The latest request wins: a response for anything but the most recently
//     issued request is discarded, however late it arrives.
//   - In-flight fetches are never canceled by a newer Set; they run under the
//     binding's base context and timeout.
package binding

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/recycleadmin/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Fetcher loads the value for key.
type Fetcher[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Snapshot is a point-in-time view of a Binding.
type Snapshot[K comparable, T any] struct {
	Key       K
	HasKey    bool
	Data      *T
	DataKey   K // key Data was fetched for; differs from Key after a failed or pending fetch
	Loading   bool
	Err       error
	UpdatedAt time.Time
}

// Binding is safe for concurrent use.
type Binding[K comparable, T any] struct {
	fetch   Fetcher[K, T]
	base    context.Context
	timeout time.Duration
	log     *zap.Logger
	name    string

	mu        sync.Mutex
	key       K
	hasKey    bool
	data      *T
	dataKey   K
	err       error
	updatedAt time.Time
	issued    uint64 // sequence of the most recently issued fetch
	applied   uint64 // sequence of the most recently applied fetch
	idle      chan struct{}
}

// Option configures a Binding.
type Option func(*options)

type options struct {
	base    context.Context
	timeout time.Duration
	log     *zap.Logger
	name    string
}

// WithContext sets the parent context for fetches. Canceling it aborts
// every fetch the binding issues from then on.
func WithContext(ctx context.Context) Option { return func(o *options) { o.base = ctx } }

// WithTimeout bounds each fetch. Defaults to timeouts.Medium().
func WithTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.log = l } }

// WithName labels log lines, e.g. "users".
func WithName(n string) Option { return func(o *options) { o.name = n } }

// New returns an idle Binding with no key and no data.
func New[K comparable, T any](fetch Fetcher[K, T], opts ...Option) *Binding[K, T] {
	o := options{
		base:    context.Background(),
		timeout: timeouts.Medium(),
		log:     zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	idle := make(chan struct{})
	close(idle)
	return &Binding[K, T]{
		fetch:   fetch,
		base:    o.base,
		timeout: o.timeout,
		log:     o.log,
		name:    o.name,
		idle:    idle,
	}
}

// Set makes key current and fetches it if it differs from the current key.
// It reports whether a fetch was issued.
func (b *Binding[K, T]) Set(key K) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasKey && b.key == key {
		return false
	}
	b.key = key
	b.hasKey = true
	b.issueLocked()
	return true
}

// Refresh re-fetches the current key. It is a no-op before the first Set.
func (b *Binding[K, T]) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasKey {
		return
	}
	b.issueLocked()
}

// Snapshot returns the current state.
func (b *Binding[K, T]) Snapshot() Snapshot[K, T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Snapshot[K, T]{
		Key:       b.key,
		HasKey:    b.hasKey,
		Data:      b.data,
		DataKey:   b.dataKey,
		Loading:   b.applied < b.issued,
		Err:       b.err,
		UpdatedAt: b.updatedAt,
	}
}

// Await blocks until the most recently issued fetch has resolved or ctx
// is done. It returns ctx.Err() in the latter case.
func (b *Binding[K, T]) Await(ctx context.Context) error {
	for {
		b.mu.Lock()
		if b.applied >= b.issued {
			b.mu.Unlock()
			return nil
		}
		idle := b.idle
		b.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Binding[K, T]) issueLocked() {
	if b.applied >= b.issued {
		b.idle = make(chan struct{})
	}
	b.issued++
	go b.run(b.issued, b.key)
}

func (b *Binding[K, T]) run(seq uint64, key K) {
	ctx, cancel := context.WithTimeout(b.base, b.timeout)
	defer cancel()

	val, err := b.fetch(ctx, key)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq != b.issued {
		b.log.Debug("discarding superseded fetch",
			zap.String("binding", b.name),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", b.issued))
		return
	}

	if err != nil {
		b.err = err
		b.log.Warn("fetch failed",
			zap.String("binding", b.name),
			zap.Uint64("seq", seq),
			zap.Error(err))
	} else {
		b.data = &val
		b.dataKey = key
		b.err = nil
	}
	b.updatedAt = time.Now()
	b.applied = seq
	close(b.idle)
}
