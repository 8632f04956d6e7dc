package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/joestump/joe-expenses/internal/api"
)

// Login starts a session. A 401 here means bad credentials, so it comes back
// as *APIError and the unauthorized hook is not called.
func (c *Client) Login(ctx context.Context, username, password string) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/login", api.LoginRequest{Username: username, Password: password}, &out, false)
	return out, credentialsError(err)
}

// Signup creates an account and starts a session.
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.do(ctx, http.MethodPost, "/api/signup", req, &out, false)
	return out, credentialsError(err)
}

func credentialsError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized && apiErr.Message == http.StatusText(http.StatusUnauthorized) {
		apiErr.Message = "Invalid credentials"
	}
	return err
}

func (c *Client) Logout(ctx context.Context) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodPost, "/api/logout", nil, &out)
	return out, err
}

func (c *Client) DeleteAccount(ctx context.Context) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodDelete, "/api/delete_account", nil, &out)
	return out, err
}

// ListExpenses returns the caller's expenses, newest first.
func (c *Client) ListExpenses(ctx context.Context) (api.ExpenseList, error) {
	var out api.ExpenseList
	if err := c.Do(ctx, http.MethodGet, "/api/expenses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentExpenses returns the caller's n newest expenses.
func (c *Client) RecentExpenses(ctx context.Context, n int) (api.ExpenseList, error) {
	var out api.ExpenseList
	if err := c.Do(ctx, http.MethodGet, "/api/expenses?limit="+strconv.Itoa(n), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddExpense(ctx context.Context, req api.CreateExpenseRequest) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodPost, "/api/expenses", req, &out)
	return out, err
}

func (c *Client) DeleteExpense(ctx context.Context, id string) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodDelete, "/api/expenses/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Analytics(ctx context.Context) (*api.AnalyticsResponse, error) {
	var out api.AnalyticsResponse
	if err := c.Do(ctx, http.MethodGet, "/api/analytics", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Budget(ctx context.Context) (*api.BudgetResponse, error) {
	var out api.BudgetResponse
	if err := c.Do(ctx, http.MethodGet, "/api/budget", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetBudget sends the amount exactly as typed.
func (c *Client) SetBudget(ctx context.Context, amount string) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodPut, "/api/budget", api.BudgetRequest{Amount: api.Amount(amount)}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (*api.UserResponse, error) {
	var out api.UserResponse
	if err := c.Do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req api.ProfileRequest) (api.MessageResponse, error) {
	var out api.MessageResponse
	err := c.Do(ctx, http.MethodPut, "/api/profile", req, &out)
	return out, err
}

// SetTheme stores the display mode in the server's theme cookie so that
// full page loads render in it. It returns the mode the server applied.
func (c *Client) SetTheme(ctx context.Context, mode string) (string, error) {
	form := url.Values{"theme": {mode}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/theme", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("client: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ConnectionError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Theme string `json:"theme"`
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&out); err != nil {
		return "", &DecodeError{Path: "/theme", Err: err}
	}
	return out.Theme, nil
}
