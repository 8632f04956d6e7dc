// Package browser runs the SPA client headlessly: one view surface driven by
// the API client, the in-place router, the page dispatcher, the actions and
// the theme toggle.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/joestump/joe-expenses/internal/actions"
	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/charts"
	"github.com/joestump/joe-expenses/internal/client"
	"github.com/joestump/joe-expenses/internal/format"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/nav"
	"github.com/joestump/joe-expenses/internal/pages"
	"github.com/joestump/joe-expenses/internal/theme"
)

// maxRedirects bounds the hard navigations settled after one operation.
const maxRedirects = 5

// ErrRedirectLoop is returned when settling keeps producing hard navigations.
var ErrRedirectLoop = errors.New("browser: too many redirects")

// Surface is everything the client shows things on.
type Surface interface {
	nav.View
	pages.Renderer
	charts.Renderer
	actions.Feedback
	theme.View
}

// Config tunes a Browser. Zero values pick the defaults.
type Config struct {
	HTTPClient *http.Client
	Formatter  *format.Formatter
	ThemeStore theme.Store
	SwapDelay  time.Duration
	Logger     *log.Logger
}

// Browser is a headless SPA session against one server.
type Browser struct {
	client     *client.Client
	surface    Surface
	router     *nav.Router
	dispatcher *nav.Dispatcher
	actions    *actions.Actions
	theme      *theme.Toggle
	log        *log.Logger

	mu       sync.Mutex
	pending  []string
	location string
}

// queueingSurface records hard navigations for the browser to settle, and
// still shows them on the real surface.
type queueingSurface struct {
	Surface
	b *Browser
}

func (q queueingSurface) HardNavigate(path string) {
	q.Surface.HardNavigate(path)
	q.b.enqueue(path)
}

func (q queueingSurface) Redirect(path string) { q.HardNavigate(path) }

func New(baseURL string, surface Surface, cfg Config) (*Browser, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Discard()
	}
	store := cfg.ThemeStore
	if store == nil {
		store = theme.NewMemoryStore("")
	}
	delay := cfg.SwapDelay
	if delay == 0 {
		delay = nav.DefaultSwapDelay
	}

	b := &Browser{log: logger.WithComponent(log.ComponentClient)}
	view := queueingSurface{Surface: surface, b: b}
	b.surface = view

	opts := []client.Option{client.WithLogger(logger), client.WithUnauthorizedHook(view.HardNavigate)}
	if cfg.HTTPClient != nil {
		opts = append(opts, client.WithHTTPClient(cfg.HTTPClient))
	}
	c, err := client.New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	b.client = c

	loaders := pages.NewLoaders(c, surface, surface, cfg.Formatter, logger)
	b.dispatcher = nav.NewDispatcher(loaders.Routes(), logger)
	b.router = nav.NewRouter(c, view,
		nav.WithSwapDelay(delay),
		nav.WithEnterHook(b.dispatcher.Dispatch),
		nav.WithLogger(logger),
	)
	b.actions = actions.New(c, view, b.dispatcher, logger)
	b.theme = theme.NewToggle(store, surface, c)
	return b, nil
}

func (b *Browser) Client() *client.Client { return b.client }

// Location is the path of the page currently shown.
func (b *Browser) Location() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.location
}

func (b *Browser) ActiveCharts() int { return b.dispatcher.ActiveCharts() }

// Open performs a full page load of path, then follows any hard navigation
// it caused.
func (b *Browser) Open(ctx context.Context, path string) error {
	if err := b.open(ctx, path); err != nil {
		return err
	}
	return b.settle(ctx)
}

func (b *Browser) open(ctx context.Context, path string) error {
	b.dispatcher.Reset()
	html, final, err := b.client.LoadPage(ctx, path)
	if err != nil {
		return fmt.Errorf("browser: loading %s: %w", path, err)
	}
	content, err := nav.ExtractContent(html, nav.ContainerID)
	if err != nil {
		return fmt.Errorf("browser: loading %s: %w", path, err)
	}
	if final != path {
		b.log.DebugContext(ctx, "page redirected", log.FieldPage, path, log.FieldPath, final)
		path = final
	}

	b.surface.SetActiveLink(path)
	b.surface.ReplaceContent(content)
	b.surface.PushHistory(path)
	b.setLocation(path)
	b.log.DebugContext(ctx, "page opened", log.FieldOperation, log.OpLoad, log.FieldPage, path)

	if err := b.dispatcher.Dispatch(ctx, path); err != nil && !client.IsUnauthorized(err) {
		return err
	}
	return nil
}

// Navigate moves to path in place, as a sidebar click would.
func (b *Browser) Navigate(ctx context.Context, path string) error {
	return b.Click(ctx, nav.Link{Href: path, InNav: true})
}

// Click follows a link.
func (b *Browser) Click(ctx context.Context, l nav.Link) error {
	err := b.router.Click(ctx, l)
	if err == nil {
		b.setLocation(strings.SplitN(l.Href, "?", 2)[0])
	} else if client.IsUnauthorized(err) {
		err = nil
	}
	if serr := b.settle(ctx); serr != nil {
		return serr
	}
	return err
}

// ToggleTheme flips the display mode.
func (b *Browser) ToggleTheme(ctx context.Context) (theme.Mode, error) {
	return b.theme.Flip(ctx)
}

// InitTheme applies the stored display mode.
func (b *Browser) InitTheme(ctx context.Context) (theme.Mode, error) {
	return b.theme.Init(ctx)
}

func (b *Browser) Login(ctx context.Context, username, password string) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.Login(ctx, username, password) })
}

func (b *Browser) Signup(ctx context.Context, username, email, password string) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.Signup(ctx, username, email, password) })
}

func (b *Browser) Logout(ctx context.Context) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.Logout(ctx) })
}

func (b *Browser) DeleteAccount(ctx context.Context) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.DeleteAccount(ctx) })
}

func (b *Browser) UpdateProfile(ctx context.Context, req api.ProfileRequest) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.UpdateProfile(ctx, req) })
}

func (b *Browser) AddExpense(ctx context.Context, form actions.ExpenseForm) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.AddExpense(ctx, form) })
}

func (b *Browser) DeleteExpense(ctx context.Context, id string) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.DeleteExpense(ctx, id) })
}

func (b *Browser) SaveBudget(ctx context.Context, input string) (actions.Result, error) {
	return b.run(ctx, func() actions.Result { return b.actions.SaveBudget(ctx, input) })
}

// run performs an action and settles the hard navigations it requested.
// The returned error is about settling; the action's own outcome is in
// the Result.
func (b *Browser) run(ctx context.Context, fn func() actions.Result) (actions.Result, error) {
	r := fn()
	return r, b.settle(ctx)
}

func (b *Browser) enqueue(path string) {
	b.mu.Lock()
	b.pending = append(b.pending, path)
	b.mu.Unlock()
}

// settle performs queued hard navigations. Only the latest request in a
// batch is followed, as with successive location assignments.
func (b *Browser) settle(ctx context.Context) error {
	for i := 0; ; i++ {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.mu.Unlock()
			return nil
		}
		next := b.pending[len(b.pending)-1]
		b.pending = nil
		b.mu.Unlock()

		if i == maxRedirects {
			return ErrRedirectLoop
		}
		if !strings.HasPrefix(next, "/") {
			b.log.InfoContext(ctx, "leaving site", log.FieldPath, next)
			return nil
		}
		if err := b.open(ctx, next); err != nil {
			return err
		}
	}
}

func (b *Browser) setLocation(p string) {
	b.mu.Lock()
	b.location = p
	b.mu.Unlock()
}
