// Package theme persists and applies the light/dark display preference.
package theme

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Key is the single persisted setting.
const Key = "theme"

type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// Parse reads a stored value. Anything but "dark" is light.
func Parse(s string) Mode {
	if Mode(s) == Dark {
		return Dark
	}
	return Light
}

func (m Mode) Flip() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Store holds the raw persisted value. An unset value loads as "".
type Store interface {
	Load() (string, error)
	Save(value string) error
}

type MemoryStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryStore(value string) *MemoryStore { return &MemoryStore{value: value} }

func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

func (s *MemoryStore) Save(v string) error {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	return nil
}

// FileStore keeps the setting in a small YAML file.
type FileStore struct {
	path string
	v    *viper.Viper
}

func NewFileStore(path string) *FileStore {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	return &FileStore{path: path, v: v}
}

func (s *FileStore) Load() (string, error) {
	if err := s.v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("theme: reading %s: %w", s.path, err)
	}
	return s.v.GetString(Key), nil
}

func (s *FileStore) Save(value string) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("theme: %w", err)
		}
	}
	s.v.Set(Key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("theme: writing %s: %w", s.path, err)
	}
	return nil
}

// View applies a mode by toggling the dark class on the page root.
type View interface {
	SetDark(on bool)
}

// Remote mirrors the mode to the server so full page loads start in it.
type Remote interface {
	SetTheme(ctx context.Context, mode string) (string, error)
}

type Toggle struct {
	store  Store
	view   View
	remote Remote

	mu   sync.Mutex
	mode Mode
}

// NewToggle returns a toggle in light mode until Init runs. remote may be nil.
func NewToggle(store Store, view View, remote Remote) *Toggle {
	return &Toggle{store: store, view: view, remote: remote, mode: Light}
}

// Init loads the persisted mode and applies it. A store error leaves the
// toggle in light mode.
func (t *Toggle) Init(ctx context.Context) (Mode, error) {
	raw, err := t.store.Load()
	mode := Parse(raw)
	if err != nil {
		mode = Light
	}
	t.set(mode)
	if err != nil {
		return mode, err
	}
	return mode, t.sync(ctx, mode)
}

// Flip inverts the mode, persists it and applies it.
func (t *Toggle) Flip(ctx context.Context) (Mode, error) {
	t.mu.Lock()
	mode := t.mode.Flip()
	t.mu.Unlock()

	t.set(mode)
	if err := t.store.Save(string(mode)); err != nil {
		return mode, err
	}
	return mode, t.sync(ctx, mode)
}

func (t *Toggle) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

func (t *Toggle) set(m Mode) {
	t.mu.Lock()
	t.mode = m
	t.mu.Unlock()
	t.view.SetDark(m == Dark)
}

func (t *Toggle) sync(ctx context.Context, m Mode) error {
	if t.remote == nil {
		return nil
	}
	if _, err := t.remote.SetTheme(ctx, string(m)); err != nil {
		return fmt.Errorf("theme: sync: %w", err)
	}
	return nil
}
