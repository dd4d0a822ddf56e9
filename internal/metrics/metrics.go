// Package metrics holds the prometheus collectors for the fault log.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultlog_records_saved_total",
		Help: "Total fault records appended to the daily log",
	})

	ValidationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faultlog_validation_rejections_total",
		Help: "Total saves rejected by the validation gate, by field",
	}, []string{"field"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "faultlog_exports_total",
		Help: "Total export attempts by result",
	}, []string{"result"})

	LogClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "faultlog_log_clears_total",
		Help: "Total times the daily log was cleared",
	})

	OpenForms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "faultlog_open_forms",
		Help: "Number of open form sessions",
	})
)

// Export results.
const (
	ExportOK     = "ok"
	ExportEmpty  = "empty"
	ExportFailed = "failed"
)
