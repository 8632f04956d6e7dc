package pages

import (
	"context"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/charts"
	"github.com/joestump/joe-expenses/internal/format"
	"github.com/joestump/joe-expenses/internal/log"
	"github.com/joestump/joe-expenses/internal/nav"
)

const (
	// RecentLimit is how many expenses the dashboard lists.
	RecentLimit = 5

	NoExpensesMessage = "No expenses yet"

	CategoryChartID = "catChart"
	MonthChartID    = "monthChart"
)

// API is the subset of the client the loaders read from.
type API interface {
	ListExpenses(ctx context.Context) (api.ExpenseList, error)
	RecentExpenses(ctx context.Context, n int) (api.ExpenseList, error)
	Analytics(ctx context.Context) (*api.AnalyticsResponse, error)
	Budget(ctx context.Context) (*api.BudgetResponse, error)
}

// Loaders fills pages from the API.
type Loaders struct {
	api    API
	view   Renderer
	charts charts.Renderer
	fmt    *format.Formatter
	log    *log.Logger
}

func NewLoaders(a API, view Renderer, cr charts.Renderer, f *format.Formatter, logger *log.Logger) *Loaders {
	if f == nil {
		f = format.Default()
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Loaders{api: a, view: view, charts: cr, fmt: f, log: logger.WithComponent(log.ComponentLoader)}
}

// Routes binds the loaders to the dispatcher's fixed routes.
func (l *Loaders) Routes() nav.Routes {
	return nav.Routes{
		Dashboard: nav.LoaderFunc(l.Dashboard),
		Expenses:  nav.LoaderFunc(l.Expenses),
		Analytics: nav.LoaderFunc(l.Analytics),
		Budget:    nav.LoaderFunc(l.Budget),
	}
}

// Dashboard fetches analytics and expenses concurrently and renders the
// summary once both arrive.
func (l *Loaders) Dashboard(ctx context.Context) (*charts.Session, error) {
	var (
		stats    *api.AnalyticsResponse
		expenses api.ExpenseList
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats, err = l.api.Analytics(gctx)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = l.api.RecentExpenses(gctx, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	v := DashboardView{
		TotalSpent: l.fmt.CurrencyOf(stats.TotalSpent),
		Budget:     l.fmt.CurrencyOf(stats.Budget),
		Remaining:  l.fmt.Currency(remaining(stats.Budget, stats.TotalSpent)),
	}
	if len(expenses) > RecentLimit {
		expenses = expenses[:RecentLimit]
	}
	v.Recent = l.rows(expenses)
	if len(v.Recent) == 0 {
		v.EmptyMessage = NoExpensesMessage
	}
	l.view.RenderDashboard(v)
	l.logLoad(ctx, "/dashboard")
	return nil, nil
}

func (l *Loaders) Expenses(ctx context.Context) (*charts.Session, error) {
	expenses, err := l.api.ListExpenses(ctx)
	if err != nil {
		return nil, err
	}
	v := ExpensesView{Rows: l.rows(expenses)}
	if len(v.Rows) == 0 {
		v.EmptyMessage = NoExpensesMessage
	}
	l.view.RenderExpenses(v)
	l.logLoad(ctx, "/expenses")
	return nil, nil
}

// Analytics renders the breakdowns and draws the category and month charts.
// Both charts belong to the returned session.
func (l *Loaders) Analytics(ctx context.Context) (*charts.Session, error) {
	stats, err := l.api.Analytics(ctx)
	if err != nil {
		return nil, err
	}

	cats := make([]string, len(stats.Categories))
	v := AnalyticsView{TotalSpent: l.fmt.CurrencyOf(stats.TotalSpent)}
	for i, c := range stats.Categories {
		cats[i] = l.fmt.Label(c)
		v.Categories = append(v.Categories, Slice{Label: cats[i], Amount: l.fmt.Currency(stats.CategoryAmounts[i])})
	}
	for i, m := range stats.Months {
		v.Months = append(v.Months, Slice{Label: m, Amount: l.fmt.Currency(stats.MonthlyAmounts[i])})
	}
	l.view.RenderAnalytics(v)

	sess := charts.NewSession()
	sess.Draw(l.charts, charts.Spec{
		ID:     CategoryChartID,
		Kind:   charts.Doughnut,
		Title:  "Spending by category",
		Labels: cats,
		Values: stats.CategoryAmounts,
	})
	sess.Draw(l.charts, charts.Spec{
		ID:     MonthChartID,
		Kind:   charts.Bar,
		Title:  "Spending by month",
		Labels: stats.Months,
		Values: stats.MonthlyAmounts,
	})
	l.logLoad(ctx, "/analytics")
	return sess, nil
}

// Budget fetches the budget and analytics concurrently.
func (l *Loaders) Budget(ctx context.Context) (*charts.Session, error) {
	var (
		budget *api.BudgetResponse
		stats  *api.AnalyticsResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		budget, err = l.api.Budget(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = l.api.Analytics(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	left := remaining(budget.Amount, stats.TotalSpent)
	v := BudgetView{
		Amount:     l.fmt.CurrencyOf(budget.Amount),
		Spent:      l.fmt.CurrencyOf(stats.TotalSpent),
		Remaining:  l.fmt.Currency(left),
		OverBudget: budget.Amount != nil && left < 0,
	}
	ratio := 0.0
	if budget.Amount != nil {
		v.Input = strconv.FormatFloat(*budget.Amount, 'f', -1, 64)
		if *budget.Amount > 0 {
			ratio = value(stats.TotalSpent) / *budget.Amount
		}
	}
	v.PercentUsed = l.fmt.Percent(ratio)
	l.view.RenderBudget(v)
	l.logLoad(ctx, "/budget")
	return nil, nil
}

func (l *Loaders) rows(expenses api.ExpenseList) []ExpenseRow {
	out := make([]ExpenseRow, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, ExpenseRow{
			ID:       e.ID,
			Title:    e.Title,
			Amount:   l.fmt.Currency(e.Amount),
			Category: l.fmt.Label(e.Category),
			Date:     e.Date,
		})
	}
	return out
}

func (l *Loaders) logLoad(ctx context.Context, page string) {
	l.log.DebugContext(ctx, "page loaded", log.FieldOperation, log.OpLoad, log.FieldPage, page)
}

// remaining is budget minus spent in cents-exact arithmetic; missing values
// count as zero.
func remaining(budget, spent *float64) float64 {
	return decimal.NewFromFloat(value(budget)).Sub(decimal.NewFromFloat(value(spent))).InexactFloat64()
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
