package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.DB.Driver != "sqlite3" || cfg.DB.DSN != "expenses.db" {
		t.Errorf("db = %s %s", cfg.DB.Driver, cfg.DB.DSN)
	}
	if cfg.SessionLifetime != 720*time.Hour {
		t.Errorf("lifetime = %v", cfg.SessionLifetime)
	}
	if cfg.Format.Locale != "en-US" || cfg.Format.Currency != "USD" {
		t.Errorf("format = %s %s", cfg.Format.Locale, cfg.Format.Currency)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JOE_HTTP_ADDR", ":9090")
	t.Setenv("JOE_DB_DRIVER", "postgres")
	t.Setenv("JOE_DB_DSN", "postgres://localhost/expenses")
	t.Setenv("JOE_CLIENT_BASE_URL", "http://example.test/")
	t.Setenv("JOE_FORMAT_CURRENCY", "eur")
	t.Setenv("JOE_INSECURE_COOKIES", "true")

	cfg, err := load(t.TempDir())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.DB.Driver)
	}
	if cfg.Client.BaseURL != "http://example.test" {
		t.Errorf("base url = %q, want trailing slash trimmed", cfg.Client.BaseURL)
	}
	if cfg.Format.Currency != "EUR" {
		t.Errorf("currency = %q", cfg.Format.Currency)
	}
	if !cfg.InsecureCookies {
		t.Error("insecure cookies not set")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "http:\n  addr: \":7070\"\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "joe-expenses.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Errorf("addr = %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("JOE_DB_DRIVER", "oracle")
		if _, err := load(t.TempDir()); err == nil {
			t.Error("expected error for unknown driver")
		}
	})
	t.Run("lifetime", func(t *testing.T) {
		t.Setenv("JOE_SESSION_LIFETIME", "forever")
		if _, err := load(t.TempDir()); err == nil {
			t.Error("expected error for bad duration")
		}
	})
}
