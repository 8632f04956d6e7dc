// Package pages loads the data behind each SPA route and renders it as a
// typed view model.
package pages

// ExpenseRow is one expense as displayed in a table.
type ExpenseRow struct {
	ID       string
	Title    string
	Amount   string
	Category string
	Date     string
}

// DashboardView backs the dashboard summary cards and recent-expense table.
type DashboardView struct {
	TotalSpent   string
	Budget       string
	Remaining    string
	Recent       []ExpenseRow
	EmptyMessage string // set when Recent is empty
}

// ExpensesView backs the full expense table.
type ExpensesView struct {
	Rows         []ExpenseRow
	EmptyMessage string
}

// Slice is one labelled amount of a breakdown.
type Slice struct {
	Label  string
	Amount string
}

type AnalyticsView struct {
	TotalSpent string
	Categories []Slice
	Months     []Slice
}

type BudgetView struct {
	Amount      string
	Spent       string
	Remaining   string
	PercentUsed string
	OverBudget  bool
	// Input is the raw budget for the edit field, empty when none is set.
	Input string
}

// Renderer displays view models on a view surface.
type Renderer interface {
	RenderDashboard(DashboardView)
	RenderExpenses(ExpensesView)
	RenderAnalytics(AnalyticsView)
	RenderBudget(BudgetView)
}
