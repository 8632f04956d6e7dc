package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/config"
	"github.com/joestump/joe-expenses/internal/db"
	"github.com/joestump/joe-expenses/internal/handler"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/metrics"
	"github.com/joestump/joe-expenses/internal/store"
)

const (
	shutdownTimeout = 10 * time.Second
	userGaugePeriod = 5 * time.Minute
	readHeaderLimit = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, !cfg.InsecureCookies)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			userStore := store.NewUserStore(database)
			budgetStore := store.NewBudgetStore(database)
			go runUserGauge(ctx, userStore, userGaugePeriod, logger)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				AuthMiddleware: auth.NewMiddleware(sessionManager, userStore),
				UserStore:      userStore,
				ExpenseStore:   store.NewExpenseStore(database),
				BudgetStore:    budgetStore,
				AnalyticsStore: store.NewAnalyticsStore(database, budgetStore),
				Logger:         logger,
				RequestLogging: true,
			})

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: readHeaderLimit,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", log.FieldOperation, log.OpStartup, "addr", cfg.HTTP.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down", log.FieldOperation, log.OpShutdown)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

// runUserGauge keeps the registered-users gauge in line with the database.
// Signup and account deletion move it between refreshes.
func runUserGauge(ctx context.Context, us *store.UserStore, every time.Duration, logger *log.Logger) {
	refresh := func() {
		n, err := us.Count(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("counting users", log.FieldError, err.Error())
			}
			return
		}
		metrics.UsersTotal.Set(float64(n))
	}

	refresh()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			refresh()
		case <-ctx.Done():
			return
		}
	}
}
