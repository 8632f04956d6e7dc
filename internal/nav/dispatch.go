package nav

import (
	"context"
	"net/url"
	"sync"

	"github.com/joestump/joe-expenses/internal/charts"
	"github.com/joestump/joe-expenses/internal/log"
)

// Loader fills one page and returns the charts it drew.
type Loader interface {
	Load(ctx context.Context) (*charts.Session, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context) (*charts.Session, error)

func (f LoaderFunc) Load(ctx context.Context) (*charts.Session, error) { return f(ctx) }

// Routes names the loader for each page. "/" is an alias of /dashboard.
type Routes struct {
	Dashboard Loader
	Expenses  Loader
	Analytics Loader
	Budget    Loader
}

// Dispatcher maps a location to its page loader and owns the chart session
// of the page currently shown.
type Dispatcher struct {
	routes map[string]Loader
	log    *log.Logger

	mu      sync.Mutex
	gen     uint64
	session *charts.Session
}

func NewDispatcher(rt Routes, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Discard()
	}
	return &Dispatcher{
		routes: map[string]Loader{
			"/":          rt.Dashboard,
			"/dashboard": rt.Dashboard,
			"/expenses":  rt.Expenses,
			"/analytics": rt.Analytics,
			"/budget":    rt.Budget,
		},
		log: logger.WithComponent(log.ComponentLoader),
	}
}

// Match returns the loader for path, or nil when the path has none.
func (d *Dispatcher) Match(path string) Loader {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	return d.routes[path]
}

// Dispatch destroys the previous page's charts, then runs the loader for
// path, if any. The charts it returns are kept until the next dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, path string) error {
	d.mu.Lock()
	d.session.Destroy()
	d.session = nil
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	loader := d.Match(path)
	if loader == nil {
		return nil
	}

	sess, err := loader.Load(ctx)

	d.mu.Lock()
	if gen != d.gen {
		// A newer dispatch already cleared the slate.
		d.mu.Unlock()
		sess.Destroy()
		return err
	}
	d.session = sess
	d.mu.Unlock()

	if err != nil {
		d.log.WarnContext(ctx, "page load failed", log.FieldPage, path, log.FieldError, err.Error())
	}
	return err
}

// ActiveCharts returns how many charts the current page holds.
func (d *Dispatcher) ActiveCharts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Len()
}

// Reset destroys the current page's charts without loading anything, as
// before a full page load.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.session.Destroy()
	d.session = nil
	d.gen++
}
