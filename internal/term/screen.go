// Package term is a terminal view surface for the headless client. It shows
// navigation, page views, charts and user feedback with lipgloss.
package term

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/joestump/joe-expenses/internal/format"
)

// NavLinks is the sidebar, in display order.
var NavLinks = []struct{ Path, Label string }{
	{"/dashboard", "Dashboard"},
	{"/expenses", "Expenses"},
	{"/analytics", "Analytics"},
	{"/budget", "Budget"},
	{"/profile", "Profile"},
}

// Screen prints everything shown to the user to one writer. It also keeps
// the current state so callers can inspect it.
type Screen struct {
	out     io.Writer
	r       *lipgloss.Renderer
	fmt     *format.Formatter
	confirm func(prompt string) bool

	mu        sync.Mutex
	palette   Palette
	st        styles
	active    string
	animation string
	content   string
	history   []string
	hard      []string
	alerts    []string
	formError string
	live      map[*chartHandle]struct{}
}

type Option func(*Screen)

// WithConfirm sets the answer source for confirmation prompts. The default
// accepts every prompt.
func WithConfirm(fn func(prompt string) bool) Option {
	return func(s *Screen) { s.confirm = fn }
}

func WithFormatter(f *format.Formatter) Option {
	return func(s *Screen) { s.fmt = f }
}

func NewScreen(out io.Writer, opts ...Option) *Screen {
	s := &Screen{
		out:     out,
		r:       lipgloss.NewRenderer(out),
		fmt:     format.Default(),
		confirm: func(string) bool { return true },
		palette: Light,
		live:    make(map[*chartHandle]struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.st = newStyles(s.r, s.palette)
	return s
}

func (s *Screen) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

// SetDark switches the palette.
func (s *Screen) SetDark(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = Light
	if on {
		s.palette = Dark
	}
	s.r.SetHasDarkBackground(on)
	s.st = newStyles(s.r, s.palette)
}

func (s *Screen) Palette() Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.palette
}

func (s *Screen) SetActiveLink(path string) {
	s.mu.Lock()
	s.active = path
	s.mu.Unlock()
}

func (s *Screen) SetAnimation(class string) {
	s.mu.Lock()
	s.animation = class
	s.mu.Unlock()
}

// ReplaceContent stores the markup of the content container.
func (s *Screen) ReplaceContent(html string) {
	s.mu.Lock()
	s.content = html
	s.mu.Unlock()
}

// PushHistory records a completed navigation and prints the sidebar.
func (s *Screen) PushHistory(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, path)
	s.println(s.sidebar())
}

func (s *Screen) sidebar() string {
	items := make([]string, 0, len(NavLinks))
	for _, l := range NavLinks {
		st := s.st.navOff
		if l.Path == s.active {
			st = s.st.navOn
		}
		items = append(items, st.Render(l.Label))
	}
	return strings.Join(items, s.st.label.Render(" | "))
}

// HardNavigate records a full page load request.
func (s *Screen) HardNavigate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hard = append(s.hard, path)
	s.println(s.st.label.Render("-> " + path))
}

// Redirect is HardNavigate under the name actions use.
func (s *Screen) Redirect(path string) { s.HardNavigate(path) }

func (s *Screen) Alert(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, msg)
	s.println(s.st.alert.Render("! " + msg))
}

func (s *Screen) ShowError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formError = msg
	s.println(s.st.errLine.Render(msg))
}

func (s *Screen) Shake() {
	s.mu.Lock()
	s.animation = "shake"
	s.mu.Unlock()
}

func (s *Screen) ResetExpenseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.println(s.st.muted.Render("form cleared"))
}

func (s *Screen) Confirm(prompt string) bool {
	ok := s.confirm(prompt)
	s.mu.Lock()
	defer s.mu.Unlock()
	answer := "no"
	if ok {
		answer = "yes"
	}
	s.println(s.st.label.Render(prompt + " " + answer))
	return ok
}

// Snapshot is the visible state of a Screen.
type Snapshot struct {
	Active     string
	Animation  string
	Content    string
	History    []string
	Hard       []string
	Alerts     []string
	FormError  string
	LiveCharts int
	Dark       bool
}

func (s *Screen) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Active:     s.active,
		Animation:  s.animation,
		Content:    s.content,
		History:    append([]string(nil), s.history...),
		Hard:       append([]string(nil), s.hard...),
		Alerts:     append([]string(nil), s.alerts...),
		FormError:  s.formError,
		LiveCharts: len(s.live),
		Dark:       s.palette.Name == Dark.Name,
	}
}
