package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	sessionClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "meshcam",
			Subsystem: "session",
			Name:      "clients_connected",
			Help:      "Remote clients currently connected to the host.",
		},
	)
	framesRelayed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meshcam",
			Subsystem: "session",
			Name:      "frames_relayed_total",
			Help:      "Frames fanned out by the host, by origin slot.",
		},
		[]string{"origin"},
	)
	rosterBroadcasts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meshcam",
			Subsystem: "session",
			Name:      "roster_broadcasts_total",
			Help:      "Completed roster broadcast passes.",
		},
	)
	broadcastRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meshcam",
			Subsystem: "session",
			Name:      "broadcast_retries_total",
			Help:      "Broadcast passes restarted after a send failure.",
		},
	)
	clientReaps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "meshcam",
			Subsystem: "session",
			Name:      "client_reaps_total",
			Help:      "Clients removed after read/write failure or protocol violation.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meshcam",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meshcam",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			sessionClients,
			framesRelayed,
			rosterBroadcasts,
			broadcastRetries,
			clientReaps,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordClientConnected() {
	RegisterMetrics()
	sessionClients.Inc()
}

func RecordClientGone() {
	RegisterMetrics()
	sessionClients.Dec()
}

func RecordFrameRelayed(origin int) {
	RegisterMetrics()
	framesRelayed.WithLabelValues(strconv.Itoa(origin)).Inc()
}

func RecordRosterBroadcast() {
	RegisterMetrics()
	rosterBroadcasts.Inc()
}

func RecordBroadcastRetry() {
	RegisterMetrics()
	broadcastRetries.Inc()
}

func RecordClientReap() {
	RegisterMetrics()
	clientReaps.Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
