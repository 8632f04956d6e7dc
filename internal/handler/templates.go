package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	Theme string      // "dark" or "light"
	User  *store.User // nil for unauthenticated pages
	Page  string      // active sidebar entry
}

func newBasePage(r *http.Request, user *store.User, page string) BasePage {
	return BasePage{Theme: themeFromRequest(r), User: user, Page: page}
}

// themeFromRequest reads the "theme" cookie. Anything but "dark" is light.
func themeFromRequest(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err != nil || c.Value != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// pageCache maps a page file name (e.g. "dashboard.html") to a compiled
// template set containing base.html + partials + that one page file. Each
// page gets its own set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	var err error
	pageCache, err = buildPageCache(web.TemplateFS)
	if err != nil {
		panic("build page cache: " + err.Error())
	}
}

func buildPageCache(fsys fs.FS) (map[string]*template.Template, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}
	pages, err := fs.Glob(fsys, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob pages: %w", err)
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		cache[filepath.Base(p)] = t
	}
	return cache, nil
}

// FragmentHeader marks a request that wants only the content block.
const FragmentHeader = "X-Fragment"

func isFragment(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get(FragmentHeader), "true")
}

// render executes a full-page template (base layout + named page), or only
// its "content" block for fragment requests.
func render(w http.ResponseWriter, r *http.Request, tmpl string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", FragmentHeader)
	t, ok := pageCache[tmpl]
	if !ok {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "template not found", log.FieldOperation, log.OpRender, log.FieldPage, tmpl)
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}
	name := "base"
	if isFragment(r) {
		name = "content"
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "render failed", log.FieldOperation, log.OpRender, log.FieldPage, tmpl, log.FieldError, err.Error())
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
	}
}
