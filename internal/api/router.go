package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/metrics"
	"github.com/joestump/joe-expenses/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Sessions  *scs.SessionManager
	Auth      *auth.Middleware
	Users     *store.UserStore
	Expenses  *store.ExpenseStore
	Budgets   *store.BudgetStore
	Analytics *store.AnalyticsStore
	Logger    *log.Logger
}

// NewAPIRouter creates the chi sub-router mounted at /api. The session
// middleware (LoadAndSave) must wrap it from outside.
func NewAPIRouter(deps Deps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentAPI)

	r := chi.NewRouter()
	r.Use(jsonContentType)
	r.Use(log.ComponentMiddleware(log.ComponentAPI))
	r.Use(instrument)

	ah := &authAPIHandler{sessions: deps.Sessions, users: deps.Users, log: logger}
	r.Post("/signup", ah.Signup)
	r.Post("/login", ah.Login)
	r.Post("/logout", ah.Logout)

	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.RequireAPIAuth)

		r.Delete("/delete_account", ah.DeleteAccount)

		eh := &expensesAPIHandler{expenses: deps.Expenses, log: logger}
		r.Get("/expenses", eh.List)
		r.Post("/expenses", eh.Create)
		r.Delete("/expenses/{id}", eh.Delete)

		bh := &budgetAPIHandler{budgets: deps.Budgets, log: logger}
		r.Get("/budget", bh.Get)
		r.Put("/budget", bh.Put)

		nh := &analyticsAPIHandler{analytics: deps.Analytics, log: logger}
		r.Get("/analytics", nh.Get)

		ph := &profileAPIHandler{users: deps.Users, log: logger}
		r.Get("/profile", ph.Get)
		r.Put("/profile", ph.Put)
	})

	return r
}

// jsonContentType sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// instrument records request count and latency per route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.APIRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status/100)+"xx").Inc()
		metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
