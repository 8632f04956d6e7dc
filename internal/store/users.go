package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is an account row. Email is optional; an empty string means NULL in
// the database so several accounts without email can coexist.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// JoinedDate returns the account creation day as YYYY-MM-DD.
func (u *User) JoinedDate() string {
	return u.CreatedAt.UTC().Format("2006-01-02")
}

// ProfileUpdate carries the editable account fields. An empty PasswordHash
// leaves the stored password untouched.
type ProfileUpdate struct {
	Username     string
	Email        string
	PasswordHash string
}

const userColumns = `id, username, COALESCE(email, '') AS email, password_hash, created_at, updated_at`

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders to the driver's native format.
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create registers a new account. Duplicate usernames and emails are reported
// as ErrUsernameTaken / ErrEmailTaken, checked up front and again via the
// unique indexes for concurrent signups.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	if err := s.checkAvailable(ctx, "", username, email); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, username, nullable(email), passwordHash, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			if strings.Contains(strings.ToLower(err.Error()), "email") {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByLogin resolves a login identifier that may be either a username or an
// email address.
func (s *UserStore) GetByLogin(ctx context.Context, login string) (*User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`, login, login)
}

// UpdateProfile changes username, email, and optionally the password hash.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, p ProfileUpdate) (*User, error) {
	if err := s.checkAvailable(ctx, id, p.Username, p.Email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var (
		res sql.Result
		err error
	)
	if p.PasswordHash != "" {
		res, err = s.db.ExecContext(ctx, s.q(`
			UPDATE users SET username = ?, email = ?, password_hash = ?, updated_at = ? WHERE id = ?
		`), p.Username, nullable(p.Email), p.PasswordHash, now, id)
	} else {
		res, err = s.db.ExecContext(ctx, s.q(`
			UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?
		`), p.Username, nullable(p.Email), now, id)
	}
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes the account together with its expenses and budget.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM expenses WHERE user_id = ?`), id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM budgets WHERE user_id = ?`), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// Count returns the number of registered accounts.
func (s *UserStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}

func (s *UserStore) getOne(ctx context.Context, query string, args ...any) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// checkAvailable reports whether username and email are free, ignoring the
// account selfID (empty on signup).
func (s *UserStore) checkAvailable(ctx context.Context, selfID, username, email string) error {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.q(`SELECT id FROM users WHERE username = ?`), username); err != nil {
		return err
	}
	for _, id := range ids {
		if id != selfID {
			return ErrUsernameTaken
		}
	}
	if email == "" {
		return nil
	}
	ids = ids[:0]
	if err := s.db.SelectContext(ctx, &ids, s.q(`SELECT id FROM users WHERE email = ?`), email); err != nil {
		return err
	}
	for _, id := range ids {
		if id != selfID {
			return ErrEmailTaken
		}
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
