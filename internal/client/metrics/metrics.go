// Package metrics holds the prometheus instrumentation of the client.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CacheReads       *prometheus.CounterVec
	CacheInvalidated prometheus.Counter
	RemoteFetches    *prometheus.CounterVec
	Uploads          *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	SubmitDuration   prometheus.Histogram
}

// New registers every collector on reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheReads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbv_listing_cache_reads_total",
			Help: "Listing cache reads by outcome (hit, miss, stale)",
		}, []string{"outcome"}),
		CacheInvalidated: f.NewCounter(prometheus.CounterOpts{
			Name: "gbv_listing_cache_invalidations_total",
			Help: "Number of listing cache invalidations",
		}),
		RemoteFetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbv_remote_fetches_total",
			Help: "Full record fetches by outcome (ok, fallback, error, offline_cache)",
		}, []string{"outcome"}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbv_certificate_uploads_total",
			Help: "Certificate uploads by outcome (ok, failed)",
		}, []string{"outcome"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gbv_submissions_total",
			Help: "Record submissions by outcome (created, updated, invalid, failed)",
		}, []string{"outcome"}),
		SubmitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gbv_submit_duration_seconds",
			Help:    "Duration of the submission pipeline",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) CacheRead(outcome string) {
	if m == nil {
		return
	}
	m.CacheReads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) CacheInvalidation() {
	if m == nil {
		return
	}
	m.CacheInvalidated.Inc()
}

func (m *Metrics) RemoteFetch(outcome string) {
	if m == nil {
		return
	}
	m.RemoteFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Upload(ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.Uploads.WithLabelValues(outcome).Inc()
}

// Submission records the outcome and the time elapsed since start.
func (m *Metrics) Submission(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmitDuration.Observe(time.Since(start).Seconds())
}
