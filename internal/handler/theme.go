package handler

import (
	"net/http"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	themeCookie = "theme"
)

// ThemeHandler handles the theme toggle endpoint.
type ThemeHandler struct{}

func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// Toggle handles POST /theme. No auth required. With an explicit theme form
// value it stores that; without one it flips the current cookie.
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	theme := r.FormValue("theme")
	switch theme {
	case ThemeDark, ThemeLight:
	case "":
		theme = ThemeDark
		if themeFromRequest(r) == ThemeDark {
			theme = ThemeLight
		}
	default:
		http.Error(w, "invalid theme", http.StatusBadRequest)
		return
	}

	// Non-HttpOnly so page scripts can read it before first paint.
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"theme":"` + theme + `"}`))
}
