// Package metrics exposes Prometheus metrics for the report lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsCreated counts reports added through the API.
	ReportsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightreport_reports_created_total",
		Help: "Number of night reports created",
	})

	// ReportsEdited counts edit operations (superseding inserts).
	ReportsEdited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightreport_reports_edited_total",
		Help: "Number of night reports edited",
	})

	// ReportsDeleted counts soft deletes.
	ReportsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nightreport_reports_deleted_total",
		Help: "Number of night reports marked invalid",
	})

	// FindResults tracks how many reports each find call returned.
	FindResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nightreport_find_results",
		Help:    "Number of reports returned per find request",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})
)
