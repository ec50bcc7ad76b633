package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlist_redirects_total",
		Help: "Total short-code resolution attempts.",
	}, []string{"status"})

	RedirectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shortlist_redirect_duration_seconds",
		Help:    "Time from request receipt to redirect response.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	ItemsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlist_items_created_total",
		Help: "Items created, labelled by shape.",
	}, []string{"kind"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlist_cache_lookups_total",
		Help: "Resolver cache lookups.",
	}, []string{"result"})
)
