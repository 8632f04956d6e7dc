package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/internal/testutil"
)

type mwEnv struct {
	sm    *scs.SessionManager
	mw    *auth.Middleware
	users *store.UserStore
}

func newMWEnv(t *testing.T) *mwEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	sm := scs.New() // in-memory store
	return &mwEnv{sm: sm, mw: auth.NewMiddleware(sm, us), users: us}
}

// sessionCookie logs userID in through a throwaway handler and returns the
// resulting session cookie.
func (e *mwEnv) sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	h := e.sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := auth.LogIn(r.Context(), e.sm, userID); err != nil {
			t.Fatalf("log in: %v", err)
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/login", nil))
	for _, c := range rec.Result().Cookies() {
		if c.Name == e.sm.Cookie.Name {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func userEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.UserFromContext(r.Context())
		if u == nil {
			w.Write([]byte("anonymous"))
			return
		}
		w.Write([]byte(u.Username))
	})
}

func TestRequireAuth_RedirectsToLogin(t *testing.T) {
	env := newMWEnv(t)
	h := env.sm.LoadAndSave(env.mw.RequireAuth(userEcho()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestRequireAPIAuth_Returns401JSON(t *testing.T) {
	env := newMWEnv(t)
	h := env.sm.LoadAndSave(env.mw.RequireAPIAuth(userEcho()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/expenses", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"error":"unauthorized"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRequireAuth_WithSession(t *testing.T) {
	env := newMWEnv(t)
	u, err := env.users.Create(context.Background(), "alice", "", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	cookie := env.sessionCookie(t, u.ID)

	h := env.sm.LoadAndSave(env.mw.RequireAuth(userEcho()))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "alice" {
		t.Errorf("body = %q, want alice", rec.Body.String())
	}
}

func TestRequireAPIAuth_DeletedUserRejected(t *testing.T) {
	env := newMWEnv(t)
	u, _ := env.users.Create(context.Background(), "alice", "", "hash")
	cookie := env.sessionCookie(t, u.ID)
	if err := env.users.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	h := env.sm.LoadAndSave(env.mw.RequireAPIAuth(userEcho()))
	req := httptest.NewRequest(http.MethodGet, "/api/expenses", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOptionalUser_Anonymous(t *testing.T) {
	env := newMWEnv(t)
	h := env.sm.LoadAndSave(env.mw.OptionalUser(userEcho()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Body.String() != "anonymous" {
		t.Errorf("body = %q, want anonymous", rec.Body.String())
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := auth.CheckPassword(hash, "s3cret"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := auth.CheckPassword(hash, "wrong"); err != auth.ErrInvalidCredentials {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
	if err := auth.CheckPassword("not-a-hash", "s3cret"); err != auth.ErrInvalidCredentials {
		t.Errorf("malformed hash err = %v, want ErrInvalidCredentials", err)
	}
}
