package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/joe-expenses/docs/swagger"
	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthMiddleware *auth.Middleware
	UserStore      *store.UserStore
	ExpenseStore   *store.ExpenseStore
	BudgetStore    *store.BudgetStore
	AnalyticsStore *store.AnalyticsStore
	Logger         *log.Logger
	// RequestLogging enables chi's access log. Tests leave it off.
	RequestLogging bool
}

// SPAPaths are the pages the client-side router swaps between.
var SPAPaths = []string{"/dashboard", "/expenses", "/analytics", "/budget", "/profile"}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	if deps.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(log.Middleware(logger.WithComponent(log.ComponentHTTP)))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	r.Use(deps.SessionManager.LoadAndSave)

	// Static assets (embedded). fs.Sub so the file server sees css/app.css
	// directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	themeHandler := NewThemeHandler()
	r.Post("/theme", themeHandler.Toggle)

	pages := NewPagesHandler()
	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.OptionalUser)
		r.Get("/", pages.Home)
		r.Get("/login", pages.Public("login"))
		r.Get("/signup", pages.Public("signup"))
	})

	r.Group(func(r chi.Router) {
		r.Use(deps.AuthMiddleware.RequireAuth)
		for _, p := range SPAPaths {
			r.Get(p, pages.Private(p[1:]))
		}
	})

	// Swagger UI, no auth required; must precede the /api mount.
	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	apiRouter := api.NewAPIRouter(api.Deps{
		Sessions:  deps.SessionManager,
		Auth:      deps.AuthMiddleware,
		Users:     deps.UserStore,
		Expenses:  deps.ExpenseStore,
		Budgets:   deps.BudgetStore,
		Analytics: deps.AnalyticsStore,
		Logger:    logger,
	})
	r.Mount("/api", apiRouter)

	return r
}
