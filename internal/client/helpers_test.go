package client_test

import "github.com/joestump/joe-expenses/internal/api"

func apiExpense(title, amount string) api.CreateExpenseRequest {
	return api.CreateExpenseRequest{Title: title, Amount: api.Amount(amount), Category: "Food", Date: "2024-01-01"}
}
