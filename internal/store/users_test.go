package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joestump/joe-expenses/internal/store"
	"github.com/joestump/joe-expenses/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewUserStore(db)
}

func TestUserCreate_AndLookup(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.JoinedDate() == "" {
		t.Error("expected joined date")
	}

	for _, login := range []string{"alice", "alice@example.com"} {
		got, err := us.GetByLogin(ctx, login)
		if err != nil {
			t.Fatalf("GetByLogin(%q): %v", login, err)
		}
		if got.ID != u.ID {
			t.Errorf("GetByLogin(%q) id = %s, want %s", login, got.ID, u.ID)
		}
	}

	if _, err := us.GetByLogin(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByLogin(nobody) err = %v, want ErrNotFound", err)
	}
}

func TestUserCreate_Duplicates(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice", "alice@example.com", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := us.Create(ctx, "alice", "other@example.com", "hash")
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}

	_, err = us.Create(ctx, "bob", "alice@example.com", "hash")
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("duplicate email err = %v, want ErrEmailTaken", err)
	}
}

func TestUserCreate_EmptyEmailsDoNotCollide(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	a, err := us.Create(ctx, "alice", "", "hash")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	if _, err := us.Create(ctx, "bob", "", "hash"); err != nil {
		t.Fatalf("create bob without email: %v", err)
	}
	if a.Email != "" {
		t.Errorf("email = %q, want empty", a.Email)
	}
}

func TestUserUpdateProfile(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	alice, _ := us.Create(ctx, "alice", "alice@example.com", "hash-1")
	if _, err := us.Create(ctx, "bob", "bob@example.com", "hash"); err != nil {
		t.Fatalf("create bob: %v", err)
	}

	// Keeping your own username and email is not a conflict.
	u, err := us.UpdateProfile(ctx, alice.ID, store.ProfileUpdate{Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("update unchanged: %v", err)
	}
	if u.PasswordHash != "hash-1" {
		t.Errorf("password hash changed without a new password: %q", u.PasswordHash)
	}

	u, err = us.UpdateProfile(ctx, alice.ID, store.ProfileUpdate{Username: "alicia", Email: "alicia@example.com", PasswordHash: "hash-2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Username != "alicia" || u.Email != "alicia@example.com" || u.PasswordHash != "hash-2" {
		t.Errorf("updated user = %+v", u)
	}

	_, err = us.UpdateProfile(ctx, alice.ID, store.ProfileUpdate{Username: "bob"})
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
	_, err = us.UpdateProfile(ctx, alice.ID, store.ProfileUpdate{Username: "alicia", Email: "bob@example.com"})
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestUserDelete_RemovesOwnedRows(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	es := store.NewExpenseStore(db)
	bs := store.NewBudgetStore(db)
	ctx := context.Background()

	u, _ := us.Create(ctx, "alice", "", "hash")
	if _, err := es.Create(ctx, u.ID, newExpense(t, "Coffee", "3.50", "Food", "2024-01-01")); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	if err := bs.Set(ctx, u.ID, mustDecimal(t, "100")); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	if err := us.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := us.GetByID(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v, want ErrNotFound", err)
	}
	list, err := es.ListByUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expenses left after delete: %d", len(list))
	}
	if err := us.Delete(ctx, u.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
