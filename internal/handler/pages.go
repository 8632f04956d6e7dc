package handler

import (
	"net/http"

	"github.com/joestump/joe-expenses/internal/auth"
)

// PagesHandler serves the server-rendered shells of every page. Data is
// filled in by the page loaders after the shell arrives.
type PagesHandler struct{}

func NewPagesHandler() *PagesHandler { return &PagesHandler{} }

// Home serves GET /: dashboard for signed-in users, login otherwise.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	if auth.UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, auth.LoginPath, http.StatusFound)
}

// Public serves a page for signed-out users; signed-in users go to the dashboard.
func (h *PagesHandler) Public(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFromContext(r.Context()) != nil {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		render(w, r, page+".html", newBasePage(r, nil, page))
	}
}

// Private serves a page behind RequireAuth.
func (h *PagesHandler) Private(page string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, page+".html", newBasePage(r, auth.UserFromContext(r.Context()), page))
	}
}
