package testutil

import (
	"net/http"
	"sync"
)

// Rendered is one template invocation captured by RenderRecorder.
type Rendered struct {
	Name    string
	Data    any
	Snippet bool
}

// RenderRecorder implements viewdata.Renderer by recording calls. It writes
// the template name to the response so status codes behave as in production.
type RenderRecorder struct {
	mu    sync.Mutex
	calls []Rendered
}

// Render records a full-page render.
func (rr *RenderRecorder) Render(w http.ResponseWriter, _ *http.Request, name string, data any) {
	rr.record(Rendered{Name: name, Data: data})
	_, _ = w.Write([]byte(name))
}

// RenderSnippet records a partial render.
func (rr *RenderRecorder) RenderSnippet(w http.ResponseWriter, name string, data any) {
	rr.record(Rendered{Name: name, Data: data, Snippet: true})
	_, _ = w.Write([]byte(name))
}

func (rr *RenderRecorder) record(c Rendered) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.calls = append(rr.calls, c)
}

// Last returns the most recent render, or false if nothing was rendered.
func (rr *RenderRecorder) Last() (Rendered, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if len(rr.calls) == 0 {
		return Rendered{}, false
	}
	return rr.calls[len(rr.calls)-1], true
}

// Reset forgets recorded calls.
func (rr *RenderRecorder) Reset() {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.calls = nil
}

// ConsoleID is a fixed console id source for handler tests.
type ConsoleID string

// ConsoleID returns the fixed id.
func (c ConsoleID) ConsoleID(http.ResponseWriter, *http.Request) (string, error) {
	return string(c), nil
}
