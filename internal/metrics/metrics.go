// Package metrics exposes the Prometheus collectors of the API.
package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Domain Metrics
	MembershipToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_membership_toggles_total",
			Help: "Favorite, shopping cart and subscription changes",
		},
		[]string{"kind", "action", "outcome"}, // kind: favorite|shopping_cart|subscription
	)

	ShoppingListDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Shopping lists rendered for download",
		},
		[]string{"aggregation"},
	)

	RecipesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Recipe creates, updates and deletes",
		},
		[]string{"operation"},
	)
)

// RecordAPIRequest records one handled HTTP request
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordToggle records a membership add or remove. err is the outcome of
// the attempt; any error counts as rejected.
func RecordToggle(kind, action string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	MembershipToggles.WithLabelValues(kind, action, outcome).Inc()
}

func RecordDownload(aggregation string) {
	ShoppingListDownloads.WithLabelValues(aggregation).Inc()
}

func RecordRecipeWrite(operation string) {
	RecipesWritten.WithLabelValues(operation).Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
