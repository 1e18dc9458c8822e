package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sunushop"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route pattern and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	// DeliveryQuotes counts resolutions by outcome (available/unavailable/idle) and match type.
	DeliveryQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "delivery",
		Name:      "quotes_total",
		Help:      "Delivery quotes computed",
	}, []string{"status", "match"})

	CatalogLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "delivery",
		Name:      "catalog_load_seconds",
		Help:      "Time to load the delivery reference catalog from the database",
		Buckets:   prometheus.DefBuckets,
	})

	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Cache lookups by cache name and result",
	}, []string{"cache", "result"}) // hit / miss

	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "orders_total",
		Help:      "Orders placed by payment method and delivery type",
	}, []string{"payment_method", "delivery_type"})

	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "failures_total",
		Help:      "Rejected checkouts by error category",
	}, []string{"category"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Order events sent to the broker",
	}, []string{"status"})

	CitySearches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "locations",
		Name:      "searches_total",
		Help:      "GeoNames city searches by outcome",
	}, []string{"result"}) // ok / error / superseded / cached
)

func ObserveRequest(route, method string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func CacheHit(cache string) {
	CacheResults.WithLabelValues(cache, "hit").Inc()
}

func CacheMiss(cache string) {
	CacheResults.WithLabelValues(cache, "miss").Inc()
}
