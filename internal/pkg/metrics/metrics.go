package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Planner metrics
	PlaylistsComposed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "planner",
		Name:      "playlists_composed_total",
		Help:      "Total playlist compositions by outcome",
	}, []string{"outcome"})

	PlaylistEfficiency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "planner",
		Name:      "efficiency_score",
		Help:      "Efficiency score of composed playlists",
		Buckets:   []float64{0.1, 0.2, 0.4, 0.6, 0.8, 0.9, 0.95, 1},
	})

	PlaylistItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "planner",
		Name:      "playlist_items",
		Help:      "Number of entries per composed playlist",
		Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	// Route metrics
	PolylineDecodeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "route",
		Name:      "polyline_decode_errors_total",
		Help:      "Total rejected encoded polylines",
	})

	CorridorMatches = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "route",
		Name:      "corridor_matches",
		Help:      "Spots found within the corridor of a route",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
	})

	// Places proxy metrics
	PlacesRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "places",
		Name:      "requests_total",
		Help:      "Total Places API calls by operation and outcome",
	}, []string{"operation", "outcome"})

	PlacesLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bloomix",
		Subsystem: "places",
		Name:      "request_duration_seconds",
		Help:      "Places API call latency",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8},
	}, []string{"operation"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "places",
		Name:      "circuit_breaker_state",
		Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total events published to NATS",
	}, []string{"subject", "outcome"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bloomix",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})

	DBPoolEmptyAcquires = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bloomix",
		Subsystem: "db",
		Name:      "pool_empty_acquires",
		Help:      "Acquires that had to wait for a new connection, since start",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path // route pattern keeps cardinality low
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c *fiber.Ctx) error {
		handler(c.Context())
		return nil
	}
}

// PoolStat is the subset of pgxpool.Stat read by UpdateDBPoolMetrics.
type PoolStat interface {
	AcquiredConns() int32
	IdleConns() int32
	TotalConns() int32
	EmptyAcquireCount() int64
}

// UpdateDBPoolMetrics copies pool statistics into the db gauges.
func UpdateDBPoolMetrics(s PoolStat) {
	DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
	DBPoolConnsIdle.Set(float64(s.IdleConns()))
	DBPoolConnsOpen.Set(float64(s.TotalConns()))
	DBPoolEmptyAcquires.Set(float64(s.EmptyAcquireCount()))
}

// ObservePlaylist records the outcome of one composition.
func ObservePlaylist(items int, score float64) {
	PlaylistsComposed.WithLabelValues("ok").Inc()
	PlaylistItems.Observe(float64(items))
	PlaylistEfficiency.Observe(score)
}
