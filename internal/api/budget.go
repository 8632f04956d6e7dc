package api

import (
	"net/http"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/metrics"
	"github.com/joestump/joe-expenses/internal/store"
)

type budgetAPIHandler struct {
	budgets *store.BudgetStore
	log     *log.Logger
}

// Get returns the caller's budget, 0 when none is set.
// GET /api/budget
//
// @Summary      Get budget
// @Tags         Budget
// @Produce      json
// @Success      200  {object}  BudgetResponse
// @Failure      401  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /budget [get]
func (h *budgetAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	amount, err := h.budgets.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	v := amount.InexactFloat64()
	writeJSON(w, http.StatusOK, BudgetResponse{Amount: &v})
}

// Put sets the caller's budget.
// PUT /api/budget
//
// @Summary      Set budget
// @Description  Amount may be a JSON number or a numeric string; it must not be negative.
// @Tags         Budget
// @Accept       json
// @Produce      json
// @Param        body  body      BudgetRequest  true  "Budget"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /budget [put]
func (h *budgetAPIHandler) Put(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}

	var req BudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}
	amount, err := store.ParseBudgetAmount(string(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
		return
	}
	if err := h.budgets.Set(r.Context(), user.ID, amount); err != nil {
		h.log.ErrorContext(r.Context(), "set budget failed", log.NewFields().WithOperation(log.OpUpdate).WithUser(user.ID).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.BudgetUpdatesTotal.Inc()
	writeMessage(w, http.StatusOK, "Updated")
}
