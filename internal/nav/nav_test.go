package nav_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joestump/joe-expenses/internal/nav"
)

// fakeView records every view effect in order.
type fakeView struct {
	mu     sync.Mutex
	events []string
}

func (v *fakeView) add(e string) {
	v.mu.Lock()
	v.events = append(v.events, e)
	v.mu.Unlock()
}

func (v *fakeView) SetActiveLink(p string)  { v.add("active " + p) }
func (v *fakeView) SetAnimation(c string)   { v.add("anim " + c) }
func (v *fakeView) ReplaceContent(h string) { v.add("replace " + h) }
func (v *fakeView) PushHistory(p string)    { v.add("push " + p) }
func (v *fakeView) HardNavigate(p string)   { v.add("hard " + p) }

func (v *fakeView) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.events...)
}

func (v *fakeView) has(prefix string) bool {
	for _, e := range v.Events() {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

type fetchFunc func(ctx context.Context, path string) (string, error)

func (f fetchFunc) FetchPage(ctx context.Context, path string) (string, error) { return f(ctx, path) }

func page(inner string) string {
	return `<!DOCTYPE html><html><body><nav id="sidebar"></nav><main id="content">` + inner + `</main></body></html>`
}

func staticFetcher(pages map[string]string) fetchFunc {
	return func(ctx context.Context, path string) (string, error) {
		if p, ok := pages[path]; ok {
			return p, nil
		}
		return "", errors.New("connection refused")
	}
}

func TestNavigate_SwapsContent(t *testing.T) {
	view := &fakeView{}
	var entered []string
	r := nav.NewRouter(staticFetcher(map[string]string{"/expenses": page(`<table id="expTable"></table>`)}), view,
		nav.WithSwapDelay(0),
		nav.WithEnterHook(func(ctx context.Context, p string) error { entered = append(entered, p); return nil }))

	if err := r.Navigate(context.Background(), "/expenses"); err != nil {
		t.Fatalf("Navigate: %v", err)
	}

	want := []string{
		"active /expenses",
		"anim page-exit",
		`replace <table id="expTable"></table>`,
		"anim page-enter",
		"push /expenses",
	}
	got := view.Events()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("events =\n%v\nwant\n%v", got, want)
	}
	if len(entered) != 1 || entered[0] != "/expenses" {
		t.Errorf("enter hook calls = %v", entered)
	}
	if r.State() != nav.Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
}

func TestNavigate_FetchFailureFallsBack(t *testing.T) {
	view := &fakeView{}
	hookCalled := false
	r := nav.NewRouter(staticFetcher(nil), view, nav.WithSwapDelay(0),
		nav.WithEnterHook(func(context.Context, string) error { hookCalled = true; return nil }))

	err := r.Navigate(context.Background(), "/budget")
	if err == nil {
		t.Fatal("expected error")
	}
	if r.State() != nav.Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
	events := view.Events()
	if last := events[len(events)-1]; last != "hard /budget" {
		t.Errorf("last event = %q, want hard /budget", last)
	}
	if view.has("replace") || view.has("push") {
		t.Errorf("failed navigation touched content: %v", events)
	}
	if hookCalled {
		t.Error("enter hook ran after a failed navigation")
	}
}

func TestNavigate_MissingContainerFallsBack(t *testing.T) {
	view := &fakeView{}
	r := nav.NewRouter(staticFetcher(map[string]string{"/analytics": "<html><body>oops</body></html>"}), view, nav.WithSwapDelay(0))

	err := r.Navigate(context.Background(), "/analytics")
	if !errors.Is(err, nav.ErrNoContainer) {
		t.Fatalf("err = %v, want ErrNoContainer", err)
	}
	if !view.has("hard /analytics") {
		t.Errorf("events = %v, want hard navigation", view.Events())
	}
}

func TestClick_OnlySidebarLinksAreIntercepted(t *testing.T) {
	fetched := 0
	f := fetchFunc(func(ctx context.Context, p string) (string, error) {
		fetched++
		return page("x"), nil
	})

	tests := []struct {
		link      nav.Link
		wantHard  string
		wantFetch int
	}{
		{nav.Link{Href: "/profile", InNav: false}, "hard /profile", 0},
		{nav.Link{Href: "https://example.com/budget", InNav: true}, "hard https://example.com/budget", 0},
		{nav.Link{Href: "/budget", InNav: true}, "", 1},
	}
	for _, tt := range tests {
		fetched = 0
		view := &fakeView{}
		r := nav.NewRouter(f, view, nav.WithSwapDelay(0))
		if err := r.Click(context.Background(), tt.link); err != nil {
			t.Fatalf("%+v: %v", tt.link, err)
		}
		if fetched != tt.wantFetch {
			t.Errorf("%+v: fetched %d times, want %d", tt.link, fetched, tt.wantFetch)
		}
		if tt.wantHard != "" && !view.has(tt.wantHard) {
			t.Errorf("%+v: events = %v, want %q", tt.link, view.Events(), tt.wantHard)
		}
		if tt.wantHard == "" && view.has("hard") {
			t.Errorf("%+v: unexpected hard navigation", tt.link)
		}
	}
}

func TestNavigate_LatestWinsDuringFetch(t *testing.T) {
	view := &fakeView{}
	started := make(chan struct{})
	f := fetchFunc(func(ctx context.Context, p string) (string, error) {
		if p == "/expenses" {
			close(started)
			<-ctx.Done()
			return "", ctx.Err()
		}
		return page("budget"), nil
	})
	var mu sync.Mutex
	var entered []string
	r := nav.NewRouter(f, view, nav.WithSwapDelay(0), nav.WithEnterHook(func(_ context.Context, p string) error {
		mu.Lock()
		entered = append(entered, p)
		mu.Unlock()
		return nil
	}))

	first := make(chan error, 1)
	go func() { first <- r.Navigate(context.Background(), "/expenses") }()
	<-started

	if err := r.Navigate(context.Background(), "/budget"); err != nil {
		t.Fatalf("second navigation: %v", err)
	}
	if err := <-first; !errors.Is(err, nav.ErrSuperseded) {
		t.Errorf("first navigation err = %v, want ErrSuperseded", err)
	}

	if view.has("hard") {
		t.Errorf("superseded navigation fell back: %v", view.Events())
	}
	if view.has("push /expenses") {
		t.Errorf("superseded navigation pushed history: %v", view.Events())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(entered) != 1 || entered[0] != "/budget" {
		t.Errorf("enter hook calls = %v, want [/budget]", entered)
	}
	if r.State() != nav.Idle {
		t.Errorf("state = %v", r.State())
	}
}

func TestNavigate_LatestWinsDuringSwapDelay(t *testing.T) {
	view := &fakeView{}
	fetchedFirst := make(chan struct{}, 1)
	f := fetchFunc(func(ctx context.Context, p string) (string, error) {
		if p == "/analytics" {
			fetchedFirst <- struct{}{}
		}
		return page(p), nil
	})
	r := nav.NewRouter(f, view, nav.WithSwapDelay(time.Hour))

	first := make(chan error, 1)
	go func() { first <- r.Navigate(context.Background(), "/analytics") }()
	<-fetchedFirst

	second := make(chan error, 1)
	go func() { second <- r.Navigate(context.Background(), "/expenses") }()

	select {
	case err := <-first:
		if !errors.Is(err, nav.ErrSuperseded) {
			t.Errorf("first err = %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first navigation was not cancelled")
	}
	if view.has("replace /analytics") {
		t.Errorf("superseded content applied: %v", view.Events())
	}
	if r.State() != nav.Transitioning {
		t.Errorf("state = %v, want transitioning while the second swap waits", r.State())
	}
}

func TestNavigate_CallerCancelReturnsToIdle(t *testing.T) {
	view := &fakeView{}
	r := nav.NewRouter(staticFetcher(map[string]string{"/budget": page("b")}), view, nav.WithSwapDelay(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := r.Navigate(ctx, "/budget")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if r.State() != nav.Idle {
		t.Errorf("state = %v, want idle", r.State())
	}
	if view.has("hard") {
		t.Error("caller cancellation should not hard-navigate")
	}
}

func TestNavigate_EnterHookError(t *testing.T) {
	view := &fakeView{}
	boom := fmt.Errorf("loader broke")
	r := nav.NewRouter(staticFetcher(map[string]string{"/budget": page("b")}), view, nav.WithSwapDelay(0),
		nav.WithEnterHook(func(context.Context, string) error { return boom }))

	if err := r.Navigate(context.Background(), "/budget"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want loader error", err)
	}
	if !view.has("push /budget") {
		t.Error("content should be swapped before the hook runs")
	}
}

func TestExtractContent(t *testing.T) {
	inner, err := nav.ExtractContent(page(`<h1>Budget</h1><input id="budgetInput"/>`), nav.ContainerID)
	if err != nil {
		t.Fatal(err)
	}
	if inner != `<h1>Budget</h1><input id="budgetInput"/>` {
		t.Errorf("inner = %q", inner)
	}
	if _, err := nav.ExtractContent("<p>none</p>", nav.ContainerID); !errors.Is(err, nav.ErrNoContainer) {
		t.Errorf("err = %v, want ErrNoContainer", err)
	}
}
