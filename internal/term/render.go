package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joestump/joe-expenses/internal/pages"
)

func (s *Screen) RenderDashboard(v pages.DashboardView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Total spent", v.TotalSpent),
		s.card("Budget", v.Budget),
		s.card("Remaining", v.Remaining),
	)
	s.println(s.st.title.Render("Dashboard"))
	s.println(cards)
	s.println(s.expenseTable("Recent expenses", v.Recent, v.EmptyMessage))
}

func (s *Screen) RenderExpenses(v pages.ExpensesView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.println(s.expenseTable("Expenses", v.Rows, v.EmptyMessage))
}

func (s *Screen) RenderAnalytics(v pages.AnalyticsView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.println(s.st.title.Render("Analytics"))
	s.println(s.card("Total spent", v.TotalSpent))
	s.println(s.sliceTable("Category", v.Categories))
	s.println(s.sliceTable("Month", v.Months))
}

func (s *Screen) RenderBudget(v pages.BudgetView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.card("Remaining", v.Remaining)
	if v.OverBudget {
		remaining = s.st.card.BorderForeground(s.palette.Bad).Render(
			s.st.label.Render("Remaining") + "\n" + s.st.bad.Render(v.Remaining))
	}
	s.println(s.st.title.Render("Budget"))
	s.println(lipgloss.JoinHorizontal(lipgloss.Top,
		s.card("Budget", v.Amount),
		s.card("Spent", v.Spent),
		remaining,
		s.card("Used", v.PercentUsed),
	))
	input := v.Input
	if input == "" {
		input = s.st.muted.Render("not set")
	}
	s.println(s.st.label.Render("Budget amount: ") + input)
}

func (s *Screen) card(label, value string) string {
	return s.st.card.Render(s.st.label.Render(label) + "\n" + s.st.value.Render(value))
}

func (s *Screen) expenseTable(title string, rows []pages.ExpenseRow, empty string) string {
	var b strings.Builder
	b.WriteString(s.st.title.Render(title))
	b.WriteString("\n")
	if len(rows) == 0 {
		b.WriteString(s.st.muted.Render(empty))
		return b.String()
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.r.NewStyle().Foreground(s.palette.Border)).
		Headers("Date", "Title", "Category", "Amount").
		StyleFunc(func(row, col int) lipgloss.Style {
			st := s.r.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return st.Bold(true).Foreground(s.palette.Accent)
			}
			if col == 3 {
				return st.Align(lipgloss.Right)
			}
			return st
		})
	for _, r := range rows {
		t.Row(r.Date, r.Title, r.Category, r.Amount)
	}
	b.WriteString(t.Render())
	return b.String()
}

func (s *Screen) sliceTable(header string, rows []pages.Slice) string {
	if len(rows) == 0 {
		return s.st.muted.Render("No " + strings.ToLower(header) + " data")
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.r.NewStyle().Foreground(s.palette.Border)).
		Headers(header, "Amount")
	for _, r := range rows {
		t.Row(r.Label, r.Amount)
	}
	return t.Render()
}
