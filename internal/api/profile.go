package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/store"
)

type profileAPIHandler struct {
	users *store.UserStore
	log   *log.Logger
}

// Get returns the caller's profile.
// GET /api/profile
//
// @Summary      Get profile
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /profile [get]
func (h *profileAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Put updates username, email and optionally the password.
// PUT /api/profile
//
// @Summary      Update profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileRequest  true  "Profile"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /profile [put]
func (h *profileAPIHandler) Put(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req ProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	upd := store.ProfileUpdate{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
	}
	if upd.Username == "" {
		writeError(w, http.StatusBadRequest, "Username required", "BAD_REQUEST")
		return
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}
		upd.PasswordHash = hash
	}

	if _, err := h.users.UpdateProfile(r.Context(), user.ID, upd); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) || errors.Is(err, store.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, err.Error(), "CONFLICT")
			return
		}
		h.log.ErrorContext(r.Context(), "update profile failed", log.NewFields().WithOperation(log.OpUpdate).WithUser(user.ID).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeMessage(w, http.StatusOK, "Updated")
}

func toUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		JoinedDate: u.JoinedDate(),
	}
}
