package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Channel metrics
	ChannelsActive  prometheus.Gauge
	ChannelsCreated prometheus.Counter
	ChannelsDeleted prometheus.Counter

	// Content metrics
	LinesAppended    prometheus.Counter
	LinesTrimmed     prometheus.Counter
	SelectionChanges prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSEvents      *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "output_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "output_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		ChannelsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "output_channels_active",
				Help: "Number of live output channels",
			},
		),
		ChannelsCreated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "output_channels_created_total",
				Help: "Total number of channels created",
			},
		),
		ChannelsDeleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "output_channels_deleted_total",
				Help: "Total number of channels deleted",
			},
		),

		LinesAppended: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "output_lines_appended_total",
				Help: "Total number of lines appended across channels",
			},
		),
		LinesTrimmed: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "output_lines_trimmed_total",
				Help: "Total number of lines removed by scrollback trimming",
			},
		),
		SelectionChanges: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "output_selection_changes_total",
				Help: "Total number of selected-channel changes",
			},
		),

		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "output_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "output_ws_events_total",
				Help: "Total number of events relayed to WebSocket clients",
			},
			[]string{"kind"},
		),

		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "output_uptime_seconds",
				Help: "Service uptime in seconds",
			},
		),
	}
}

// UpdateUptime refreshes the uptime gauge
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
