package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/metrics"
	"github.com/joestump/joe-expenses/internal/store"
)

type expensesAPIHandler struct {
	expenses *store.ExpenseStore
	log      *log.Logger
}

// List returns the caller's expenses, newest date first.
// GET /api/expenses
//
// @Summary      List expenses
// @Tags         Expenses
// @Produce      json
// @Param        limit  query     int  false  "Only the newest N expenses (max 200)"
// @Success      200  {array}   ExpenseResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /expenses [get]
func (h *expensesAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var (
		rows []*store.Expense
		err  error
	)
	if limit := parseLimit(r); limit > 0 {
		rows, err = h.expenses.ListRecent(r.Context(), user.ID, limit)
	} else {
		rows, err = h.expenses.ListByUser(r.Context(), user.ID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	resp := make(ExpenseList, 0, len(rows))
	for _, e := range rows {
		resp = append(resp, toExpenseResponse(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create records a new expense for the caller.
// POST /api/expenses
//
// @Summary      Add an expense
// @Description  Amount may be a JSON number or a numeric string and must be positive.
// @Tags         Expenses
// @Accept       json
// @Produce      json
// @Param        body  body      CreateExpenseRequest  true  "Expense"
// @Success      201   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /expenses [post]
func (h *expensesAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req CreateExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	amount, err := store.ParseExpenseAmount(string(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
		return
	}
	in, err := store.ValidateNewExpense(store.NewExpense{
		Title:    req.Title,
		Amount:   amount,
		Category: req.Category,
		Date:     req.Date,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
		return
	}

	e, err := h.expenses.Create(r.Context(), user.ID, in)
	if err != nil {
		h.log.ErrorContext(r.Context(), "create expense failed", log.NewFields().WithOperation(log.OpCreate).WithUser(user.ID).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.ExpensesCreatedTotal.Inc()
	log.FromContextOr(r.Context(), h.log).InfoContext(r.Context(), "expense created", log.NewFields().WithUser(user.ID).WithExpense(e.ID, e.Amount.StringFixed(2), e.Category).ToSlice()...)
	writeMessage(w, http.StatusCreated, "Saved")
}

// Delete removes one of the caller's expenses.
// DELETE /api/expenses/{id}
//
// @Summary      Delete an expense
// @Tags         Expenses
// @Produce      json
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  MessageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /expenses/{id} [delete]
func (h *expensesAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.expenses.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "expense not found", "NOT_FOUND")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.ExpensesDeletedTotal.Inc()
	log.FromContextOr(r.Context(), h.log).InfoContext(r.Context(), "expense deleted", log.NewFields().WithUser(user.ID).WithExpense(id, "", "").ToSlice()...)
	writeMessage(w, http.StatusOK, "Deleted")
}

func toExpenseResponse(e *store.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Title:    e.Title,
		Amount:   e.Amount.InexactFloat64(),
		Category: e.Category,
		Date:     e.Date,
	}
}
