package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hotelavail"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	availabilityChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_checks_total",
			Help:      "Availability checks by outcome (ok or the validation error code).",
		},
		[]string{"outcome"},
	)

	catalogHotels = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_loaded_hotels",
		Help:      "Hotels in the loaded catalog.",
	})

	catalogBookings = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_loaded_bookings",
		Help:      "Bookings in the loaded catalog.",
	})

	botUpdateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "bot_update_processing_seconds",
		Help:      "Time spent processing Telegram updates.",
		Buckets:   prometheus.DefBuckets,
	})

	botErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bot_errors_total",
		Help:      "Panics recovered and send failures in the Telegram bot.",
	})

	stateFallback = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bot_state_fallback_active",
		Help:      "1 while bot forms are kept in memory because Redis failed.",
	})
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			availabilityChecks,
			catalogHotels,
			catalogBookings,
			botUpdateDuration,
			botErrors,
			stateFallback,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncCheck counts one availability check.
func IncCheck(outcome string) {
	availabilityChecks.WithLabelValues(outcome).Inc()
}

func SetCatalog(hotels, bookings int) {
	catalogHotels.Set(float64(hotels))
	catalogBookings.Set(float64(bookings))
}

func ObserveBotUpdate(d time.Duration) {
	botUpdateDuration.Observe(d.Seconds())
}

func IncBotError() {
	botErrors.Inc()
}

func SetStateFallback(active bool) {
	if active {
		stateFallback.Set(1)
		return
	}
	stateFallback.Set(0)
}
