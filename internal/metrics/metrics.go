// Package metrics registers the client's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentToggles counts payment-status toggles by outcome:
	// "ok" or "rolled_back".
	PaymentToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budgeting_payment_toggles_total",
		Help: "Payment status toggles issued against the API, by outcome.",
	}, []string{"outcome"})

	// PaymentReloads counts payment-set fetches by outcome: "ok" or "error".
	PaymentReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "budgeting_payment_reloads_total",
		Help: "Payment record fetches, by outcome.",
	}, []string{"outcome"})

	// ImportedExpenses counts personal expenses successfully copied into a group.
	ImportedExpenses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeting_imported_expenses_total",
		Help: "Personal expenses successfully imported into groups.",
	})

	// SkippedImports counts candidates dropped as structural duplicates.
	SkippedImports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeting_skipped_imports_total",
		Help: "Import candidates skipped because they already exist in the group.",
	})

	// FailedImports counts import batches aborted by a failed create call.
	FailedImports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "budgeting_failed_imports_total",
		Help: "Import batches aborted by a remote create failure.",
	})
)
