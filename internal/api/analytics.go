package api

import (
	"net/http"

	"github.com/joestump/joe-expenses/internal/auth"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/store"
)

type analyticsAPIHandler struct {
	analytics *store.AnalyticsStore
	log       *log.Logger
}

// Get returns spending totals by category and by month.
// GET /api/analytics
//
// @Summary      Spending analytics
// @Description  Categories are sorted by name, months (YYYY-MM) ascending. Amount slices run parallel to their label slices.
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  AnalyticsResponse
// @Failure      401  {object}  ErrorResponse
// @Security     SessionCookie
// @Router       /analytics [get]
func (h *analyticsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
		return
	}
	sum, err := h.analytics.Summarize(r.Context(), user.ID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "analytics failed", log.NewFields().WithOperation(log.OpRead).WithUser(user.ID).WithError(err).ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toAnalyticsResponse(sum))
}

func toAnalyticsResponse(s *store.Summary) AnalyticsResponse {
	total := s.TotalSpent.InexactFloat64()
	budget := s.Budget.InexactFloat64()
	resp := AnalyticsResponse{
		TotalSpent:      &total,
		Budget:          &budget,
		Categories:      make([]string, 0, len(s.Categories)),
		CategoryAmounts: make([]float64, 0, len(s.Categories)),
		Months:          make([]string, 0, len(s.Months)),
		MonthlyAmounts:  make([]float64, 0, len(s.Months)),
	}
	for _, c := range s.Categories {
		resp.Categories = append(resp.Categories, c.Category)
		resp.CategoryAmounts = append(resp.CategoryAmounts, c.Amount.InexactFloat64())
	}
	for _, m := range s.Months {
		resp.Months = append(resp.Months, m.Month)
		resp.MonthlyAmounts = append(resp.MonthlyAmounts, m.Amount.InexactFloat64())
	}
	return resp
}
