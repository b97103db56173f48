// Package metrics provides Prometheus metrics for the Chocobo Tracker.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/codyseavey/chocobo-tracker/internal/models"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chocobo_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chocobo_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Card mutation metrics
	CardMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chocobo_card_mutations_total",
			Help: "Card mutations by operation and result",
		},
		[]string{"operation", "result"}, // result: "ok", "invalid", "not_found", "store_error"
	)

	AdminRateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chocobo_admin_rate_limited_total",
			Help: "Admin requests rejected by the write rate limiter",
		},
	)

	// Store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chocobo_store_operation_duration_seconds",
			Help:    "Key-value store round trip latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"}, // "get", "set", "delete"
	)

	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chocobo_store_errors_total",
			Help: "Key-value store errors by operation",
		},
		[]string{"operation"}, // "get", "set", "delete", "decode"
	)

	CollectionMigrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chocobo_collection_migrations_total",
			Help: "Collection initialisations by source",
		},
		[]string{"source"}, // "legacy", "seed", "import"
	)

	// Collection Metrics
	CollectionFoundCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chocobo_collection_found_cards",
			Help: "Number of cards reported found",
		},
	)

	CollectionGradedCards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chocobo_collection_graded_cards",
			Help: "Number of cards with grading information",
		},
	)

	CollectionValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chocobo_collection_value_usd",
			Help: "Sum of current prices of found cards",
		},
	)

	// Stats cache
	StatsCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chocobo_stats_cache_hits_total",
			Help: "Statistics rollups served from cache",
		},
	)

	StatsCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chocobo_stats_cache_misses_total",
			Help: "Statistics rollups computed from scratch",
		},
	)
)

// UpdateCollectionMetrics refreshes the collection gauges from a full collection
func UpdateCollectionMetrics(cards []models.Card) {
	found, graded := 0, 0
	value := 0.0
	for i := range cards {
		if cards[i].Grading != nil {
			graded++
		}
		if !cards[i].Found {
			continue
		}
		found++
		if cards[i].Price != nil {
			value += *cards[i].Price
		}
	}

	CollectionFoundCards.Set(float64(found))
	CollectionGradedCards.Set(float64(graded))
	CollectionValueUSD.Set(value)
}
