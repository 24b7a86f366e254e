// Package metrics exposes the Prometheus registry used by the pokedex client
// packages and an HTTP handler for scraping it. Individual metrics live in the
// packages that own them (client, cache, pokedex) and register via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registerer used by all packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer paired with Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler returns the scrape handler for Gatherer.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - pokeapi_requests_total{endpoint, status} (Counter)
//   - pokeapi_request_duration_seconds{endpoint} (Histogram)
//   - pokeapi_errors_total{class} (Counter): client, server, network, not_found, decode
//
// Cache Metrics (pkg/cache):
//   - pokeapi_cache_hits_total{layer="redis"} (Counter)
//   - pokeapi_cache_misses_total (Counter)
//   - pokeapi_304_responses_total (Counter)
//   - pokeapi_conditional_requests_total (Counter)
//   - pokeapi_cache_errors_total{operation} (Counter)
//
// Adaptation Metrics (pkg/pokedex):
//   - pokedex_list_entries_dropped_total (Counter): list entries without a parseable id
//   - pokedex_enrichment_failures_total (Counter): detail fetches absorbed during enrichment
//   - pokedex_enrichment_duration_seconds (Histogram): fan-out wall time per list
//
// Example Prometheus Queries:
//
//   # Enrichment failure ratio
//   rate(pokedex_enrichment_failures_total[5m]) /
//   rate(pokeapi_requests_total{endpoint=~"/api/v2/pokemon/.+"}[5m])
//
//   # P95 upstream latency
//   histogram_quantile(0.95, rate(pokeapi_request_duration_seconds_bucket[5m]))
