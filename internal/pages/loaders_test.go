package pages_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joestump/joe-expenses/internal/api"
	"github.com/joestump/joe-expenses/internal/charts"
	"github.com/joestump/joe-expenses/internal/format"
	"github.com/joestump/joe-expenses/internal/pages"
)

func f64(v float64) *float64 { return &v }

type fakeAPI struct {
	expenses  api.ExpenseList
	analytics *api.AnalyticsResponse
	budget    *api.BudgetResponse
	err       error

	// barrier, when set, makes each fetch wait until the other has started.
	barrier *barrier
}

type barrier struct {
	n    atomic.Int32
	done chan struct{}
}

func newBarrier() *barrier { return &barrier{done: make(chan struct{})} }

func (b *barrier) arrive(ctx context.Context) error {
	if b.n.Add(1) == 2 {
		close(b.done)
	}
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Second):
		return errors.New("fetches did not run concurrently")
	}
}

func (f *fakeAPI) wait(ctx context.Context) error {
	if f.barrier == nil {
		return nil
	}
	return f.barrier.arrive(ctx)
}

func (f *fakeAPI) ListExpenses(ctx context.Context) (api.ExpenseList, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.expenses, f.err
}

func (f *fakeAPI) RecentExpenses(ctx context.Context, n int) (api.ExpenseList, error) {
	list, err := f.ListExpenses(ctx)
	if len(list) > n {
		list = list[:n]
	}
	return list, err
}

func (f *fakeAPI) Analytics(ctx context.Context) (*api.AnalyticsResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.analytics == nil {
		return &api.AnalyticsResponse{}, nil
	}
	return f.analytics, nil
}

func (f *fakeAPI) Budget(ctx context.Context) (*api.BudgetResponse, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.budget == nil {
		return &api.BudgetResponse{}, nil
	}
	return f.budget, nil
}

type recordingRenderer struct {
	dashboard []pages.DashboardView
	expenses  []pages.ExpensesView
	analytics []pages.AnalyticsView
	budget    []pages.BudgetView
}

func (r *recordingRenderer) RenderDashboard(v pages.DashboardView) { r.dashboard = append(r.dashboard, v) }
func (r *recordingRenderer) RenderExpenses(v pages.ExpensesView)   { r.expenses = append(r.expenses, v) }
func (r *recordingRenderer) RenderAnalytics(v pages.AnalyticsView) { r.analytics = append(r.analytics, v) }
func (r *recordingRenderer) RenderBudget(v pages.BudgetView)       { r.budget = append(r.budget, v) }

func newLoaders(a pages.API) (*pages.Loaders, *recordingRenderer, *charts.Recorder) {
	r := &recordingRenderer{}
	rec := &charts.Recorder{}
	return pages.NewLoaders(a, r, rec, format.Default(), nil), r, rec
}

func sampleExpenses(n int) api.ExpenseList {
	out := make(api.ExpenseList, n)
	for i := range out {
		out[i] = api.ExpenseResponse{ID: string(rune('a' + i)), Title: "Coffee", Amount: 4.5, Category: "food", Date: "2024-01-01"}
	}
	return out
}

func TestDashboard(t *testing.T) {
	a := &fakeAPI{
		expenses:  sampleExpenses(7),
		analytics: &api.AnalyticsResponse{TotalSpent: f64(1234.5), Budget: f64(2000)},
		barrier:   newBarrier(),
	}
	l, r, _ := newLoaders(a)

	sess, err := l.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if sess.Len() != 0 {
		t.Errorf("dashboard registered %d charts", sess.Len())
	}
	if len(r.dashboard) != 1 {
		t.Fatalf("rendered %d times", len(r.dashboard))
	}
	v := r.dashboard[0]
	if v.TotalSpent != "$1,234.50" || v.Budget != "$2,000.00" || v.Remaining != "$765.50" {
		t.Errorf("cards = %q %q %q", v.TotalSpent, v.Budget, v.Remaining)
	}
	if len(v.Recent) != pages.RecentLimit {
		t.Errorf("recent rows = %d, want %d", len(v.Recent), pages.RecentLimit)
	}
	if v.Recent[0].Amount != "$4.50" || v.Recent[0].Category != "Food" {
		t.Errorf("row = %+v", v.Recent[0])
	}
	if v.EmptyMessage != "" {
		t.Errorf("EmptyMessage = %q with rows present", v.EmptyMessage)
	}
}

func TestDashboard_MissingFieldsRenderZero(t *testing.T) {
	l, r, _ := newLoaders(&fakeAPI{})
	if _, err := l.Dashboard(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := r.dashboard[0]
	if v.TotalSpent != "$0.00" || v.Budget != "$0.00" || v.Remaining != "$0.00" {
		t.Errorf("cards = %q %q %q", v.TotalSpent, v.Budget, v.Remaining)
	}
	if v.EmptyMessage != pages.NoExpensesMessage {
		t.Errorf("EmptyMessage = %q", v.EmptyMessage)
	}
}

func TestDashboard_ErrorRendersNothing(t *testing.T) {
	boom := errors.New("Connection failed")
	l, r, _ := newLoaders(&fakeAPI{err: boom})
	if _, err := l.Dashboard(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if len(r.dashboard) != 0 {
		t.Error("rendered despite failure")
	}
}

func TestExpenses(t *testing.T) {
	l, r, _ := newLoaders(&fakeAPI{expenses: sampleExpenses(3)})
	if _, err := l.Expenses(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := len(r.expenses[0].Rows); got != 3 {
		t.Errorf("rows = %d, want 3", got)
	}

	l, r, _ = newLoaders(&fakeAPI{})
	if _, err := l.Expenses(context.Background()); err != nil {
		t.Fatal(err)
	}
	if v := r.expenses[0]; len(v.Rows) != 0 || v.EmptyMessage != pages.NoExpensesMessage {
		t.Errorf("empty view = %+v", v)
	}
}

func TestAnalytics_DrawsTwoCharts(t *testing.T) {
	l, r, rec := newLoaders(&fakeAPI{analytics: &api.AnalyticsResponse{
		TotalSpent:      f64(32.8),
		Categories:      []string{"food", "transport"},
		CategoryAmounts: []float64{30.3, 2.5},
		Months:          []string{"2024-01", "2024-02"},
		MonthlyAmounts:  []float64{12.6, 20.2},
	}})

	sess, err := l.Analytics(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if sess.Len() != 2 {
		t.Fatalf("session holds %d charts, want 2", sess.Len())
	}
	drawn := rec.Drawn()
	if drawn[0].Spec.ID != pages.CategoryChartID || drawn[0].Spec.Kind != charts.Doughnut {
		t.Errorf("first chart = %+v", drawn[0].Spec)
	}
	if drawn[1].Spec.ID != pages.MonthChartID || drawn[1].Spec.Kind != charts.Bar {
		t.Errorf("second chart = %+v", drawn[1].Spec)
	}
	if drawn[0].Spec.Labels[0] != "Food" {
		t.Errorf("category label = %q", drawn[0].Spec.Labels[0])
	}

	v := r.analytics[0]
	if v.TotalSpent != "$32.80" || v.Categories[1].Amount != "$2.50" || v.Months[0].Label != "2024-01" {
		t.Errorf("view = %+v", v)
	}

	sess.Destroy()
	if len(rec.Live()) != 0 {
		t.Error("charts survived session destroy")
	}
}

func TestBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget *float64
		spent  *float64
		want   pages.BudgetView
	}{
		{
			name:   "under budget",
			budget: f64(5000),
			spent:  f64(1250),
			want:   pages.BudgetView{Amount: "$5,000.00", Spent: "$1,250.00", Remaining: "$3,750.00", PercentUsed: "25.0%", Input: "5000"},
		},
		{
			name:   "over budget",
			budget: f64(100),
			spent:  f64(150.5),
			want:   pages.BudgetView{Amount: "$100.00", Spent: "$150.50", Remaining: "-$50.50", PercentUsed: "150.5%", OverBudget: true, Input: "100"},
		},
		{
			name: "no budget set",
			want: pages.BudgetView{Amount: "$0.00", Spent: "$0.00", Remaining: "$0.00", PercentUsed: "0.0%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, r, _ := newLoaders(&fakeAPI{
				budget:    &api.BudgetResponse{Amount: tt.budget},
				analytics: &api.AnalyticsResponse{TotalSpent: tt.spent},
				barrier:   newBarrier(),
			})
			if _, err := l.Budget(context.Background()); err != nil {
				t.Fatal(err)
			}
			if got := r.budget[0]; got != tt.want {
				t.Errorf("view =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestRoutes_BindsEveryLoader(t *testing.T) {
	l, _, _ := newLoaders(&fakeAPI{})
	rt := l.Routes()
	if rt.Dashboard == nil || rt.Expenses == nil || rt.Analytics == nil || rt.Budget == nil {
		t.Errorf("routes = %+v", rt)
	}
}
