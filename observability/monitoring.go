package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Connections = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chat_socket_connections",
		Help: "Current number of live socket connections per namespace",
	}, []string{"namespace"})
	EventsReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_socket_events_received_total",
		Help: "Inbound socket events per namespace and event name",
	}, []string{"namespace", "event"})
	EventsDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_socket_events_delivered_total",
		Help: "Outbound events handed to a live connection",
	}, []string{"namespace", "event"})
	EventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_socket_events_dropped_total",
		Help: "Outbound events not delivered, by reason",
	}, []string{"namespace", "reason"})
	SocketErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_socket_errors_total",
		Help: "Scoped error events sent back to the acting connection",
	}, []string{"namespace", "kind"})
	ProcessRSS = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_process_rss_bytes",
		Help: "Resident memory of the server process",
	})
	ProcessCPU = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chat_process_cpu_percent",
		Help: "CPU usage of the server process",
	})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		Connections, EventsReceived, EventsDelivered, EventsDropped, SocketErrors,
		ProcessRSS, ProcessCPU, HttpRequestsTotal, HttpRequestDuration,
	)
}

// GinMiddleware records basic request metrics for Prometheus.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}

// HealthStats is the latest process snapshot, served by /healthz.
type HealthStats struct {
	Status      string         `json:"status"`
	PID         int32          `json:"pid"`
	RSSBytes    uint64         `json:"rss_bytes"`
	CPUPercent  float64        `json:"cpu_percent"`
	Goroutines  int            `json:"goroutines"`
	Connections map[string]int `json:"connections"`
	SampledAt   time.Time      `json:"sampled_at"`
}

// MonitoringManager keeps the latest health snapshot for readers.
type MonitoringManager struct {
	mu          sync.RWMutex
	latestStats HealthStats
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{latestStats: HealthStats{Status: "starting", Connections: map[string]int{}}}
}

func (mm *MonitoringManager) Update(stats HealthStats) {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	mm.latestStats = stats
}

func (mm *MonitoringManager) Latest() HealthStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return mm.latestStats
}
