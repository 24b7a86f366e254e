package pokedex

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	listEntriesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_list_entries_dropped_total",
		Help: "List entries skipped because their url has no numeric id",
	})

	enrichmentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokedex_enrichment_failures_total",
		Help: "Detail fetches that failed while enriching a list",
	})

	enrichmentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pokedex_enrichment_duration_seconds",
		Help:    "Wall time of the concurrent detail fan-out per list",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
)
