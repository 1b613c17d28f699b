package parser

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	documentsParsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bulba_documents_parsed_total",
			Help: "Documents parsed successfully",
		},
	)

	parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bulba_parse_failures_total",
			Help: "Documents rejected, partitioned by error kind i.e. header, tab, hierarchy",
		}, []string{"kind"},
	)

	parseDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bulba_parse_duration_seconds",
			Help:    "Samples latency of tokenizing and parsing one document",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)
)

func init() {
	prometheus.MustRegister(documentsParsed, parseFailures, parseDuration)
}

func observe(start time.Time, err error) {
	parseDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		documentsParsed.Inc()
		return
	}

	kind := "unknown"
	var perr *Error
	if errors.As(err, &perr) {
		kind = perr.Kind.String()
	}
	parseFailures.WithLabelValues(kind).Inc()
}
