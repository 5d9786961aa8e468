package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_requests_total",
			Help: "Total number of HTTP requests per route and method",
		},
		[]string{"route", "method"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "locadora_request_duration_seconds",
			Help:    "Request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RequestErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_request_errors_total",
			Help: "Total number of error responses per route and status code",
		},
		[]string{"route", "code"},
	)
)

var (
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_quotes_total",
			Help: "Quotations produced, by kind (quote or lead) and season",
		},
		[]string{"kind", "season"},
	)

	QuoteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_quote_failures_total",
			Help: "Quotation requests rejected, by reason",
		},
		[]string{"reason"},
	)

	QuoteTotalBRL = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "locadora_quote_total_brl",
			Help:    "Distribution of quoted totals in BRL",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000},
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_emails_sent_total",
			Help: "Quotation emails sent, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)
)

var (
	ListingsFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_listings_fetch_total",
			Help: "Listing table loads, by outcome (fetched, cached, snapshot, mirror, empty)",
		},
		[]string{"outcome"},
	)

	ListingsCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locadora_listings_count",
			Help: "Number of listings in the most recently loaded table",
		},
	)

	ListingsLastFetch = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "locadora_listings_last_fetch_timestamp",
			Help: "Unix timestamp of the last successful listing fetch",
		},
	)
)

var (
	ScheduledJobLastRun = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "locadora_job_last_run_timestamp",
			Help: "Unix timestamp of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobLastDurationSeconds = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "locadora_job_last_duration_seconds",
			Help: "Duration of the last completed run for a job",
		},
		[]string{"job"},
	)

	ScheduledJobFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "locadora_job_failures_total",
			Help: "Total number of failed executions per job",
		},
		[]string{"job"},
	)
)

// ObserveListings records the outcome of a table load.
func ObserveListings(outcome string, count int, fetchedAt time.Time) {
	ListingsFetchTotal.WithLabelValues(outcome).Inc()
	ListingsCount.Set(float64(count))
	if outcome == "fetched" && !fetchedAt.IsZero() {
		ListingsLastFetch.Set(float64(fetchedAt.Unix()))
	}
}

func UpdateJobMetrics(job string, startedAt time.Time, err error) {
	dur := time.Since(startedAt).Seconds()
	ScheduledJobLastDurationSeconds.WithLabelValues(job).Set(dur)
	ScheduledJobLastRun.WithLabelValues(job).Set(float64(time.Now().Unix()))
	if err != nil {
		ScheduledJobFailuresTotal.WithLabelValues(job).Inc()
	}
}
