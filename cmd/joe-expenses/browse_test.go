package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/config"
	"github.com/joestump/joe-expenses/internal/handler"
	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/internal/testutil"
)

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	ask := prompter(strings.NewReader("y\nno\n"), &out)

	if !ask("Delete this expense?") {
		t.Error("first answer should be yes")
	}
	if ask("Delete your account?") {
		t.Error("second answer should be no")
	}
	if ask("Again?") {
		t.Error("end of input should be no")
	}
	if !strings.Contains(out.String(), "Delete this expense? [y/N]") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestRunBrowse_DeleteExpenseAsks(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	es := store.NewExpenseStore(db)
	bs := store.NewBudgetStore(db)
	sm := scs.New()
	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		SessionManager: sm,
		AuthMiddleware: auth.NewMiddleware(sm, us),
		UserStore:      us,
		ExpenseStore:   es,
		BudgetStore:    bs,
		AnalyticsStore: store.NewAnalyticsStore(db, bs),
	}))
	t.Cleanup(srv.Close)

	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	user, err := us.Create(ctx, "alice", "", hash)
	if err != nil {
		t.Fatal(err)
	}
	e, err := es.Create(ctx, user.ID, store.NewExpense{
		Title: "Coffee", Amount: decimal.NewFromInt(4), Category: "Food", Date: "2026-10-01",
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{LogLevel: "error"}
	cfg.Format.Locale = "en-US"
	cfg.Format.Currency = "USD"
	f := browseFlags{url: srv.URL, username: "alice", password: "pw", ask: true, deleteIDs: []string{e.ID}}

	run := func(answer string) string {
		t.Helper()
		var stdout, stderr bytes.Buffer
		cmd := &cobra.Command{}
		cmd.SetContext(ctx)
		cmd.SetIn(strings.NewReader(answer))
		cmd.SetOut(&stdout)
		cmd.SetErr(&stderr)
		if err := runBrowse(cmd, cfg, f, []string{"/expenses"}); err != nil {
			t.Fatalf("browse: %v", err)
		}
		return stderr.String()
	}

	if got := run("n\n"); !strings.Contains(got, "kept expense "+e.ID) {
		t.Errorf("declined output = %q", got)
	}
	if list, _ := es.ListByUser(ctx, user.ID); len(list) != 1 {
		t.Fatalf("expenses after declining = %d, want 1", len(list))
	}

	if got := run("y\n"); !strings.Contains(got, "deleted expense "+e.ID) {
		t.Errorf("confirmed output = %q", got)
	}
	if list, _ := es.ListByUser(ctx, user.ID); len(list) != 0 {
		t.Errorf("expenses after confirming = %d, want 0", len(list))
	}
}
