// Package actions implements the form and button handlers of the SPA: auth,
// profile, expense and budget mutations.
package actions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/client"
	"github.com/joestump/joe-expenses/internal/log"
)

// Outcome classifies how an action ended.
type Outcome int

const (
	Success Outcome = iota + 1
	Failure
	// Canceled means the user declined a confirmation; nothing was sent.
	Canceled
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Canceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is what an action did. Message is the text shown to the user, if
// any. Err is set for failures that came from the client.
type Result struct {
	Outcome Outcome
	Message string
	Err     error
}

func (r Result) OK() bool { return r.Outcome == Success }

// User-facing messages.
const (
	MsgCredentialsRequired = "Username and password required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgSignupFailed        = "Failed"
	MsgUsernameRequired    = "Username required"
	MsgProfileUpdated      = "Profile updated"
	MsgExpenseRequired     = "Title and amount are required"
	MsgRequestFailed       = "Request failed"

	ConfirmDeleteAccount = "Delete your account? This cannot be undone."
	ConfirmDeleteExpense = "Delete this expense?"
)

const (
	dashboardPath = "/dashboard"
	expensesPath  = "/expenses"
	budgetPath    = "/budget"
)

// API is the subset of the client the actions call.
type API interface {
	Login(ctx context.Context, username, password string) (api.MessageResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (api.MessageResponse, error)
	Logout(ctx context.Context) (api.MessageResponse, error)
	DeleteAccount(ctx context.Context) (api.MessageResponse, error)
	UpdateProfile(ctx context.Context, req api.ProfileRequest) (api.MessageResponse, error)
	AddExpense(ctx context.Context, req api.CreateExpenseRequest) (api.MessageResponse, error)
	DeleteExpense(ctx context.Context, id string) (api.MessageResponse, error)
	SetBudget(ctx context.Context, amount string) (api.MessageResponse, error)
}

// Feedback is the part of the view surface actions talk to.
type Feedback interface {
	Alert(msg string)
	// ShowError writes msg into the auth form's error line.
	ShowError(msg string)
	// Shake replays the auth card's shake animation.
	Shake()
	ResetExpenseForm()
	// Redirect is a full page load of path.
	Redirect(path string)
	Confirm(prompt string) bool
}

// Reloader re-runs the loader of a page, e.g. *nav.Dispatcher.
type Reloader interface {
	Dispatch(ctx context.Context, path string) error
}

// ExpenseForm is the add-expense form as typed.
type ExpenseForm struct {
	Title    string
	Amount   string
	Category string
	Date     string
}

type Actions struct {
	api    API
	fb     Feedback
	reload Reloader
	log    *log.Logger
	now    func() time.Time
}

// Option configures Actions.
type Option func(*Actions)

// WithClock sets the clock that dates expenses submitted without one.
func WithClock(now func() time.Time) Option {
	return func(a *Actions) { a.now = now }
}

func New(a API, fb Feedback, reload Reloader, logger *log.Logger, opts ...Option) *Actions {
	if logger == nil {
		logger = log.Discard()
	}
	acts := &Actions{api: a, fb: fb, reload: reload, log: logger.WithComponent(log.ComponentAction), now: time.Now}
	for _, opt := range opts {
		opt(acts)
	}
	return acts
}

func (a *Actions) Login(ctx context.Context, username, password string) Result {
	if blank(username) || blank(password) {
		return a.authFailure(MsgCredentialsRequired, nil)
	}
	if _, err := a.api.Login(ctx, username, password); err != nil {
		return a.authFailure(client.Message(err, MsgInvalidCredentials), err)
	}
	a.log.InfoContext(ctx, "logged in", log.FieldOperation, log.OpLogin)
	a.fb.Redirect(dashboardPath)
	return Result{Outcome: Success}
}

func (a *Actions) Signup(ctx context.Context, username, email, password string) Result {
	if blank(username) || blank(password) {
		return a.authFailure(MsgCredentialsRequired, nil)
	}
	_, err := a.api.Signup(ctx, api.SignupRequest{Username: username, Email: email, Password: password})
	if err != nil {
		return a.authFailure(client.Message(err, MsgSignupFailed), err)
	}
	a.log.InfoContext(ctx, "signed up", log.FieldOperation, log.OpSignup)
	a.fb.Redirect(dashboardPath)
	return Result{Outcome: Success}
}

func (a *Actions) authFailure(msg string, err error) Result {
	a.fb.ShowError(msg)
	a.fb.Shake()
	return Result{Outcome: Failure, Message: msg, Err: err}
}

// Logout ends the session and always lands on the login page, even when
// the server could not be reached.
func (a *Actions) Logout(ctx context.Context) Result {
	_, err := a.api.Logout(ctx)
	if err != nil && !errors.Is(err, client.ErrUnauthorized) {
		a.log.WarnContext(ctx, "logout failed", log.FieldOperation, log.OpLogout, log.FieldError, err.Error())
	}
	a.fb.Redirect(client.LoginPath)
	if err != nil {
		return Result{Outcome: Failure, Err: err}
	}
	return Result{Outcome: Success}
}

func (a *Actions) DeleteAccount(ctx context.Context) Result {
	if !a.fb.Confirm(ConfirmDeleteAccount) {
		return Result{Outcome: Canceled}
	}
	if _, err := a.api.DeleteAccount(ctx); err != nil {
		return a.failure(err)
	}
	a.fb.Redirect(client.LoginPath)
	return Result{Outcome: Success}
}

func (a *Actions) UpdateProfile(ctx context.Context, req api.ProfileRequest) Result {
	if blank(req.Username) {
		a.fb.Alert(MsgUsernameRequired)
		return Result{Outcome: Failure, Message: MsgUsernameRequired}
	}
	if _, err := a.api.UpdateProfile(ctx, req); err != nil {
		return a.failure(err)
	}
	a.fb.Alert(MsgProfileUpdated)
	return Result{Outcome: Success, Message: MsgProfileUpdated}
}

// AddExpense submits the form. Missing title or amount is reported without
// calling the API. A blank date means today, in UTC.
func (a *Actions) AddExpense(ctx context.Context, form ExpenseForm) Result {
	if blank(form.Title) || blank(form.Amount) {
		a.fb.Alert(MsgExpenseRequired)
		return Result{Outcome: Failure, Message: MsgExpenseRequired}
	}
	if blank(form.Date) {
		form.Date = a.now().UTC().Format(time.DateOnly)
	}
	res, err := a.api.AddExpense(ctx, api.CreateExpenseRequest{
		Title:    form.Title,
		Amount:   api.Amount(strings.TrimSpace(form.Amount)),
		Category: form.Category,
		Date:     form.Date,
	})
	if err != nil {
		return a.failure(err)
	}
	a.fb.ResetExpenseForm()
	a.reloadPage(ctx, expensesPath)
	return Result{Outcome: Success, Message: res.Message}
}

func (a *Actions) DeleteExpense(ctx context.Context, id string) Result {
	if !a.fb.Confirm(ConfirmDeleteExpense) {
		return Result{Outcome: Canceled}
	}
	res, err := a.api.DeleteExpense(ctx, id)
	if err != nil {
		return a.failure(err)
	}
	a.reloadPage(ctx, expensesPath)
	return Result{Outcome: Success, Message: res.Message}
}

// SaveBudget sends input as typed and reloads the budget page whatever the
// server answered.
func (a *Actions) SaveBudget(ctx context.Context, input string) Result {
	res, err := a.api.SetBudget(ctx, input)
	var r Result
	if err != nil {
		r = a.failure(err)
	} else {
		r = Result{Outcome: Success, Message: res.Message}
	}
	a.reloadPage(ctx, budgetPath)
	return r
}

// failure alerts the user unless the client already redirected to login.
func (a *Actions) failure(err error) Result {
	if errors.Is(err, client.ErrUnauthorized) {
		return Result{Outcome: Failure, Err: err}
	}
	msg := client.Message(err, MsgRequestFailed)
	a.fb.Alert(msg)
	return Result{Outcome: Failure, Message: msg, Err: err}
}

func (a *Actions) reloadPage(ctx context.Context, path string) {
	if a.reload == nil {
		return
	}
	if err := a.reload.Dispatch(ctx, path); err != nil {
		a.log.WarnContext(ctx, "reload failed", log.FieldPage, path, log.FieldError, err.Error())
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
