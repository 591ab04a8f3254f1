package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sales settled, partitioned by terminal status
	salesCommittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jewelcore_sales_committed_total",
			Help: "Total number of sales pushed through settlement",
		},
		[]string{"status"},
	)

	// Product prices rewritten by bulk recalculation
	recalcUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jewelcore_recalc_price_updates_total",
			Help: "Total number of product prices rewritten by recalculation runs",
		},
	)

	// Stock updates that failed during settlement and were recorded as warnings
	inventoryWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jewelcore_inventory_warnings_total",
			Help: "Total number of inventory updates that failed during settlement",
		},
	)

	// Invoices that could not be generated after a committed sale
	invoiceFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jewelcore_invoice_failures_total",
			Help: "Total number of invoice snapshots that failed to persist",
		},
	)
)
