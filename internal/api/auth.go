package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/metrics"
	"github.com/joestump/joe-expenses/internal/store"
)

type authAPIHandler struct {
	sessions *scs.SessionManager
	users    *store.UserStore
	log      *log.Logger
}

// Signup registers an account and logs it in.
// POST /api/signup
//
// @Summary      Sign up
// @Description  Creates an account and starts a session. Email is optional but unique.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      SignupRequest  true  "Account"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /signup [post]
func (h *authAPIHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password required", "BAD_REQUEST")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	user, err := h.users.Create(r.Context(), username, email, hash)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) || errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, err.Error(), "CONFLICT")
			return
		}
		h.log.ErrorContext(r.Context(), "signup failed", log.NewFields().WithOperation(log.OpSignup).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	if err := auth.LogIn(r.Context(), h.sessions, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.SignupsTotal.Inc()
	metrics.UsersTotal.Inc()
	log.FromContextOr(r.Context(), h.log).InfoContext(r.Context(), "account created", log.FieldUserID, user.ID)
	writeMessage(w, http.StatusOK, "Created")
}

// Login starts a session for a username or email and password.
// POST /api/login
//
// @Summary      Log in
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  MessageResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	user, err := h.users.GetByLogin(r.Context(), strings.TrimSpace(req.Username))
	if err == nil {
		err = auth.CheckPassword(user.PasswordHash, req.Password)
	}
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.ErrorContext(r.Context(), "login lookup failed", log.NewFields().WithOperation(log.OpLogin).WithError(err).ToSlice()...)
		}
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
		return
	}

	if err := auth.LogIn(r.Context(), h.sessions, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeMessage(w, http.StatusOK, "Success")
}

// Logout clears the session. It succeeds without a session too.
// POST /api/logout
//
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Router       /logout [post]
func (h *authAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.LogOut(r.Context(), h.sessions); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeMessage(w, http.StatusOK, "Logged out")
}

// DeleteAccount removes the caller's account and all of its data.
// DELETE /api/delete_account
//
// @Summary      Delete account
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /delete_account [delete]
func (h *authAPIHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	if err := h.users.Delete(r.Context(), user.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		h.log.ErrorContext(r.Context(), "delete account failed", log.NewFields().WithOperation(log.OpDelete).WithUser(user.ID).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	_ = auth.LogOut(r.Context(), h.sessions)
	metrics.UsersTotal.Dec()
	log.FromContextOr(r.Context(), h.log).InfoContext(r.Context(), "account deleted", log.FieldUserID, user.ID)
	writeMessage(w, http.StatusOK, "Deleted")
}
