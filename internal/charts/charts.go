// Package charts tracks the chart handles drawn by one page visit so they
// can all be released before the next page loads.
package charts

import "sync"

// Kind is the chart style.
type Kind string

const (
	Doughnut Kind = "doughnut"
	Bar      Kind = "bar"
)

// Spec describes one chart to draw. Labels and Values run in parallel.
type Spec struct {
	ID     string
	Kind   Kind
	Title  string
	Labels []string
	Values []float64
}

// Handle is a drawn chart. Destroy releases it.
type Handle interface {
	Destroy()
}

// Renderer draws charts on a view surface.
type Renderer interface {
	Draw(spec Spec) Handle
}

// Session owns the charts of one page visit. A nil *Session is a valid empty
// session, so pages without charts can return nil.
type Session struct {
	mu      sync.Mutex
	handles []Handle
}

func NewSession() *Session { return &Session{} }

// Add registers h for destruction with the session.
func (s *Session) Add(h Handle) {
	if s == nil || h == nil {
		return
	}
	s.mu.Lock()
	s.handles = append(s.handles, h)
	s.mu.Unlock()
}

// Draw renders spec with r and registers the resulting handle.
func (s *Session) Draw(r Renderer, spec Spec) Handle {
	h := r.Draw(spec)
	s.Add(h)
	return h
}

// Len returns the number of live handles.
func (s *Session) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

// Destroy destroys every registered handle once and empties the session.
// Calling it again is a no-op.
func (s *Session) Destroy() {
	if s == nil {
		return
	}
	s.mu.Lock()
	handles := s.handles
	s.handles = nil
	s.mu.Unlock()
	for _, h := range handles {
		h.Destroy()
	}
}
