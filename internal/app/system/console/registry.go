package console

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Session holds one browser session's controllers, keyed by screen name.
type Session struct {
	mu    sync.Mutex
	ctrls map[string]any
}

// Use returns the controller named name, building it on first use.
func Use[C any](s *Session, name string, build func() C) C {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.ctrls[name].(C); ok {
		return c
	}
	c := build()
	s.ctrls[name] = c
	return c
}

// Registry keeps a Session per console id. Idle sessions expire after ttl.
type Registry struct {
	cache  *gocache.Cache
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// NewRegistry returns a registry whose sessions expire after ttl without
// use. Expired entries are swept every ttl/2.
func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Registry{
		cache:  gocache.New(ttl, ttl/2),
		ctx:    ctx,
		cancel: cancel,
		log:    logger,
	}
	r.cache.OnEvicted(func(id string, _ interface{}) {
		r.log.Debug("console session evicted", zap.String("console_id", id))
	})
	return r
}

// Context is canceled by Close; controllers use it as the parent of their
// fetches.
func (r *Registry) Context() context.Context { return r.ctx }

// Get returns the session for id, creating it if needed. Each call
// restarts the idle timer.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.cache.Get(id)
	if !ok {
		s = &Session{ctrls: map[string]any{}}
		r.log.Debug("console session created", zap.String("console_id", id))
	}
	r.cache.SetDefault(id, s)
	return s.(*Session)
}

// IDSource issues the per-browser console id, normally the session manager.
type IDSource interface {
	ConsoleID(w http.ResponseWriter, r *http.Request) (string, error)
}

// SessionFor returns the session of the browser that sent req.
func (r *Registry) SessionFor(w http.ResponseWriter, req *http.Request, ids IDSource) (*Session, error) {
	id, err := ids.ConsoleID(w, req)
	if err != nil {
		return nil, fmt.Errorf("console id: %w", err)
	}
	return r.Get(id), nil
}

// Drop discards the session for id.
func (r *Registry) Drop(id string) {
	if id == "" {
		return
	}
	r.cache.Delete(id)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int { return r.cache.ItemCount() }

// Close cancels in-flight fetches and empties the registry.
func (r *Registry) Close() {
	r.cancel()
	r.cache.Flush()
}
