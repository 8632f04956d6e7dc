// Package nav swaps page content in place of full page loads: a Router
// drives the animated transition and a Dispatcher runs the page loader for
// the new location.
package nav

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/joestump/joe-expenses/internal/log"
)

const (
	// DefaultSwapDelay matches the exit animation in app.css.
	DefaultSwapDelay = 200 * time.Millisecond

	ContainerID = "content"
	ExitClass   = "page-exit"
	EnterClass  = "page-enter"
)

// ErrSuperseded is returned by a navigation that a newer one replaced. A
// superseded navigation applies no further view effects.
var ErrSuperseded = errors.New("nav: navigation superseded")

// State is the router's transition state.
type State int

const (
	Idle State = iota
	Transitioning
)

func (s State) String() string {
	if s == Transitioning {
		return "transitioning"
	}
	return "idle"
}

// View is the surface a Router mutates.
type View interface {
	SetActiveLink(path string)
	SetAnimation(class string)
	ReplaceContent(html string)
	PushHistory(path string)
	HardNavigate(path string)
}

// Fetcher returns the full HTML document served at path.
type Fetcher interface {
	FetchPage(ctx context.Context, path string) (string, error)
}

// EnterHook runs after new content is in place, typically Dispatcher.Dispatch.
type EnterHook func(ctx context.Context, path string) error

// Link is a clicked anchor.
type Link struct {
	Href  string
	InNav bool // inside the navigation sidebar
}

// Router performs in-place navigations. Starting a navigation cancels the
// one in flight; only the latest navigation touches the view.
type Router struct {
	fetcher Fetcher
	view    View
	onEnter EnterHook
	delay   time.Duration
	log     *log.Logger

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
}

// Option configures a Router.
type Option func(*Router)

// WithSwapDelay overrides DefaultSwapDelay.
func WithSwapDelay(d time.Duration) Option {
	return func(r *Router) { r.delay = d }
}

// WithEnterHook sets the hook run after each completed swap.
func WithEnterHook(fn EnterHook) Option {
	return func(r *Router) { r.onEnter = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Router) { r.log = l }
}

func NewRouter(f Fetcher, v View, opts ...Option) *Router {
	r := &Router{fetcher: f, view: v, delay: DefaultSwapDelay, log: log.Discard()}
	for _, o := range opts {
		o(r)
	}
	r.log = r.log.WithComponent(log.ComponentRouter)
	return r
}

// State returns the current transition state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Click handles an anchor click. Sidebar links to internal paths navigate in
// place; every other link is a full page load.
func (r *Router) Click(ctx context.Context, l Link) error {
	path, ok := internalPath(l.Href)
	if !l.InNav || !ok {
		r.view.HardNavigate(l.Href)
		return nil
	}
	return r.Navigate(ctx, path)
}

// Navigate swaps the content container for the one served at path. If the
// page cannot be fetched or has no container, it falls back to a full page
// load of path and returns the cause.
func (r *Router) Navigate(ctx context.Context, path string) error {
	ctx, seq := r.begin(ctx, path)
	defer r.release(seq)

	html, err := r.fetcher.FetchPage(ctx, path)
	if err == nil {
		html, err = ExtractContent(html, ContainerID)
	}
	if err != nil {
		return r.fail(ctx, seq, path, err)
	}

	t := time.NewTimer(r.delay)
	select {
	case <-t.C:
	case <-ctx.Done():
		t.Stop()
		return r.fail(ctx, seq, path, ctx.Err())
	}

	r.mu.Lock()
	if seq != r.seq {
		r.mu.Unlock()
		return ErrSuperseded
	}
	r.view.ReplaceContent(html)
	r.view.SetAnimation(EnterClass)
	r.view.PushHistory(path)
	r.state = Idle
	r.mu.Unlock()

	r.log.DebugContext(ctx, "navigated", log.FieldOperation, log.OpNavigate, log.FieldPath, path)
	if r.onEnter != nil {
		if err := r.onEnter(ctx, path); err != nil {
			return fmt.Errorf("nav: enter %s: %w", path, err)
		}
	}
	return nil
}

// begin supersedes any navigation in flight and applies the exit effects.
func (r *Router) begin(parent context.Context, path string) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
	}
	r.seq++
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel
	r.state = Transitioning
	r.view.SetActiveLink(path)
	r.view.SetAnimation(ExitClass)
	return ctx, r.seq
}

// release cancels the navigation's context once it returns. The context
// stays alive through the enter hook.
func (r *Router) release(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq == r.seq && r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Router) fail(ctx context.Context, seq uint64, path string, cause error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		return ErrSuperseded
	}
	r.state = Idle
	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		// The caller gave up; nothing to fall back to.
		return cause
	}
	r.log.WarnContext(ctx, "in-place navigation failed, loading page", log.FieldPath, path, log.FieldError, cause.Error())
	r.view.HardNavigate(path)
	return fmt.Errorf("nav: %s: %w", path, cause)
}

// internalPath returns the path of a same-origin href.
func internalPath(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "", false
	}
	return u.Path, true
}
