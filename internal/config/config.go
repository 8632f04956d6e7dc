package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Client struct {
		BaseURL   string
		ThemeFile string
	}
	Format struct {
		Locale   string
		Currency string
	}
	LogLevel        string
	InsecureCookies bool
	SessionLifetime time.Duration
}

// Load reads config from an optional .env file, the environment (JOE_
// prefix) and an optional joe-expenses.yaml, in increasing precedence for
// explicitly set env vars.
func Load() (*Config, error) {
	return load(".")
}

func load(dir string) (*Config, error) {
	_ = godotenv.Load() // optional .env; never overrides the real environment

	v := viper.New()
	v.SetEnvPrefix("JOE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-expenses")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "expenses.db")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("insecure_cookies", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.theme_file", "")
	v.SetDefault("format.locale", "en-US")
	v.SetDefault("format.currency", "USD")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Client.BaseURL = strings.TrimRight(v.GetString("client.base_url"), "/")
	cfg.Client.ThemeFile = v.GetString("client.theme_file")
	cfg.Format.Locale = v.GetString("format.locale")
	cfg.Format.Currency = strings.ToUpper(v.GetString("format.currency"))
	cfg.LogLevel = v.GetString("log.level")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid JOE_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("JOE_DB_DRIVER must be one of sqlite3, mysql, postgres (got %q)", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("JOE_DB_DSN is required")
	}

	return cfg, nil
}
