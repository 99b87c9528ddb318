package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                           sync.Once
	metricsRouter                  *chi.Mux
	clientRequestDurationHistogram *prometheus.HistogramVec
	pollerDurationHistogram        *prometheus.HistogramVec
	dbLatency                      *prometheus.HistogramVec
	activitiesStoredCounter        prometheus.Counter
	duplicateActivitiesCounter     prometheus.Counter
	staleActivitiesCounter         prometheus.Counter
	feedReconnectsCounter          prometheus.Counter
	feedMessagesCounter            *prometheus.CounterVec
	trackedAddressesGauge          prometheus.Gauge
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	// client requests are the ones sent to the data API
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)

	activitiesStoredCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_stored_count",
			Help: "The total number of new trade activities persisted",
		},
	)

	duplicateActivitiesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_duplicate_count",
			Help: "The total number of trade activities skipped as already stored",
		},
	)

	staleActivitiesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_stale_count",
			Help: "The total number of trade activities dropped as too old",
		},
	)

	feedReconnectsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_reconnect_count",
			Help: "The total number of feed reconnect attempts",
		},
	)

	feedMessagesCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_messages_count",
			Help: "The total number of inbound feed messages by handling result",
		},
		[]string{"result"},
	)

	trackedAddressesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracked_addresses",
			Help: "Number of tracked trader addresses",
		},
	)

	prometheus.MustRegister(
		clientRequestDurationHistogram,
		pollerDurationHistogram,
		dbLatency,
		activitiesStoredCounter,
		duplicateActivitiesCounter,
		staleActivitiesCounter,
		feedReconnectsCounter,
		feedMessagesCounter,
		trackedAddressesGauge,
	)
}

// RecordClientRequestDuration records the duration of a client request
func RecordClientRequestDuration(baseUrl, method, path string, statusCode int, duration time.Duration) {
	if clientRequestDurationHistogram == nil {
		return
	}
	clientRequestDurationHistogram.WithLabelValues(
		baseUrl, method, path, fmt.Sprintf("%d", statusCode),
	).Observe(duration.Seconds())
}

// RecordDbLatency records the db call latency by method name
func RecordDbLatency(method string, duration time.Duration, success bool) {
	if dbLatency == nil {
		return
	}
	status := Success
	if !success {
		status = Error
	}
	dbLatency.WithLabelValues(method, status.String()).Observe(duration.Seconds())
}

func IncActivitiesStored() {
	if activitiesStoredCounter != nil {
		activitiesStoredCounter.Inc()
	}
}

func IncDuplicateActivities() {
	if duplicateActivitiesCounter != nil {
		duplicateActivitiesCounter.Inc()
	}
}

func IncStaleActivities() {
	if staleActivitiesCounter != nil {
		staleActivitiesCounter.Inc()
	}
}

func IncFeedReconnects() {
	if feedReconnectsCounter != nil {
		feedReconnectsCounter.Inc()
	}
}

// RecordFeedMessage counts one inbound feed message by handling result
// ("forwarded", "ignored" or "malformed").
func RecordFeedMessage(result string) {
	if feedMessagesCounter != nil {
		feedMessagesCounter.WithLabelValues(result).Inc()
	}
}

func SetTrackedAddresses(n int) {
	if trackedAddressesGauge != nil {
		trackedAddressesGauge.Set(float64(n))
	}
}
