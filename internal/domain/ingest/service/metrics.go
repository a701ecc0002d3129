package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
)

var (
	recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesingest",
		Name:      "records_processed_total",
		Help:      "Candidate sales records by final outcome.",
	}, []string{"format", "outcome"})

	unknownCustomers = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesingest",
		Name:      "unknown_customers_total",
		Help:      "Orders or rows whose customer could not be resolved.",
	}, []string{"format"})
)

func observeRecord(format classifier.SourceFormat, outcome recordOutcome) {
	recordsProcessed.WithLabelValues(string(format), string(outcome)).Inc()
}

func observeUnknownCustomers(format classifier.SourceFormat, n int) {
	if n > 0 {
		unknownCustomers.WithLabelValues(string(format)).Add(float64(n))
	}
}
