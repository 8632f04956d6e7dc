package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joeexpenses_logins_total",
		Help: "Login attempts by result.",
	}, []string{"result"})

	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joeexpenses_signups_total",
		Help: "Accounts created.",
	})

	ExpensesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joeexpenses_expenses_created_total",
		Help: "Expense rows written to the database.",
	})

	ExpensesDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joeexpenses_expenses_deleted_total",
		Help: "Expense rows removed by their owner.",
	})

	BudgetUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joeexpenses_budget_updates_total",
		Help: "Successful budget saves.",
	})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joeexpenses_api_requests_total",
		Help: "API requests by route pattern, method and status class.",
	}, []string{"route", "method", "status"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "joeexpenses_api_request_duration_seconds",
		Help:    "API request latency.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route"})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "joeexpenses_users_total",
		Help: "Total number of registered users in the database.",
	})
)
