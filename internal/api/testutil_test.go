package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/internal/testutil"
)

// testEnv holds the stores and the session-wrapped API router.
type testEnv struct {
	Router    http.Handler
	Sessions  *scs.SessionManager
	Users     *store.UserStore
	Expenses  *store.ExpenseStore
	Budgets   *store.BudgetStore
	Analytics *store.AnalyticsStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores and an in-memory
// session store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	es := store.NewExpenseStore(db)
	bs := store.NewBudgetStore(db)
	as := store.NewAnalyticsStore(db, bs)
	sm := scs.New()

	router := api.NewAPIRouter(api.Deps{
		Sessions:  sm,
		Auth:      auth.NewMiddleware(sm, us),
		Users:     us,
		Expenses:  es,
		Budgets:   bs,
		Analytics: as,
	})
	return &testEnv{
		Router:    sm.LoadAndSave(router),
		Sessions:  sm,
		Users:     us,
		Expenses:  es,
		Budgets:   bs,
		Analytics: as,
	}
}

// do sends a request through the router, optionally with a JSON body and
// session cookie.
func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.Router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set on rec, if any.
func (e *testEnv) sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == e.Sessions.Cookie.Name && c.Value != "" {
			return c
		}
	}
	return nil
}

// signup registers username through the API and returns its session cookie.
func (e *testEnv) signup(t *testing.T, username, email string) *http.Cookie {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + email + `","password":"pw"}`
	rec := e.do(t, http.MethodPost, "/signup", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("signup status = %d; body: %s", rec.Code, rec.Body.String())
	}
	c := e.sessionCookie(rec)
	if c == nil {
		t.Fatal("signup did not set a session cookie")
	}
	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v; body: %s", err, rec.Body.String())
	}
	return v
}
