package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Prometheus configuration
	MetricsPath    string // HTTP path for metrics endpoint (default: /metrics)
	MetricsPort    int    // Port for metrics server (default: 9090)
	EnablePush     bool   // Enable push gateway support
	PushGatewayURL string // Push gateway URL

	// Metric options
	Namespace        string    // Prometheus namespace (default: voicemeeter)
	Subsystem        string    // Prometheus subsystem
	HistogramBuckets []float64 // Custom histogram buckets for latency

	// Labels to add to all metrics
	ConstLabels prometheus.Labels
}

// MetricsProvider manages Prometheus metrics
type MetricsProvider interface {
	// Record MCP operations
	RecordRequest(ctx context.Context, method, status string, duration time.Duration)
	RecordNotification(ctx context.Context, method, status string, duration time.Duration)
	RecordBatchRequest(ctx context.Context, size int, status string, duration time.Duration)
	RecordIncomingRequest(ctx context.Context, method, status string, duration time.Duration)
	RecordIncomingNotification(ctx context.Context, method, status string, duration time.Duration)
	RecordIncomingBatchRequest(ctx context.Context, size int, status string, duration time.Duration)

	// Record transport events
	RecordTransportEvent(ctx context.Context, event, status string, duration time.Duration)
	RecordConnectionState(ctx context.Context, state string)

	// Record Remote API calls
	RecordDeviceCall(ctx context.Context, call, status string, duration time.Duration)

	// Management
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// PrometheusMetricsProvider implements MetricsProvider using Prometheus
type PrometheusMetricsProvider struct {
	config MetricsConfig
	server *http.Server

	// Core MCP metrics
	requestDuration      *prometheus.HistogramVec
	requestTotal         *prometheus.CounterVec
	notificationDuration *prometheus.HistogramVec
	notificationTotal    *prometheus.CounterVec
	batchRequestDuration *prometheus.HistogramVec
	batchRequestTotal    *prometheus.CounterVec
	batchRequestSize     *prometheus.HistogramVec

	// Incoming metrics
	incomingRequestDuration *prometheus.HistogramVec
	incomingRequestTotal    *prometheus.CounterVec
	// Reserved for future use:
	// incomingNotificationDuration *prometheus.HistogramVec
	// incomingNotificationTotal    *prometheus.CounterVec

	// Transport metrics
	transportEventDuration *prometheus.HistogramVec
	connectionState        *prometheus.GaugeVec

	// Device metrics
	deviceCallDuration *prometheus.HistogramVec
	deviceCallTotal    *prometheus.CounterVec
}

// NewMetricsProvider creates a new Prometheus metrics provider
func NewMetricsProvider(config MetricsConfig) (MetricsProvider, error) {
	// Set defaults
	if config.Namespace == "" {
		config.Namespace = "voicemeeter"
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}
	if config.MetricsPort == 0 {
		config.MetricsPort = 9090
	}
	if config.HistogramBuckets == nil {
		// Default buckets for milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}

	// Add service labels to const labels
	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	config.ConstLabels["service"] = config.ServiceName
	config.ConstLabels["version"] = config.ServiceVersion
	config.ConstLabels["environment"] = config.Environment

	provider := &PrometheusMetricsProvider{
		config: config,
	}

	// Initialize metrics
	provider.initializeMetrics()

	// Register metrics
	if err := provider.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	return provider, nil
}

// initializeMetrics creates all metric collectors
func (p *PrometheusMetricsProvider) initializeMetrics() {
	// Request metrics
	p.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_duration_milliseconds",
			Help:        "Duration of MCP requests in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "request_total",
			Help:        "Total number of MCP requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	// Notification metrics
	p.notificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "notification_duration_milliseconds",
			Help:        "Duration of MCP notifications in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.notificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "notification_total",
			Help:        "Total number of MCP notifications",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	// Batch request metrics
	p.batchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "batch_request_duration_milliseconds",
			Help:        "Duration of MCP batch requests in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"status"},
	)

	p.batchRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "batch_request_total",
			Help:        "Total number of MCP batch requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"status"},
	)

	p.batchRequestSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "batch_request_size",
			Help:        "Size of MCP batch requests",
			Buckets:     []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"status"},
	)

	// Incoming request metrics
	p.incomingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "incoming_request_duration_milliseconds",
			Help:        "Duration of incoming MCP requests in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	p.incomingRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "incoming_request_total",
			Help:        "Total number of incoming MCP requests",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "status"},
	)

	// Transport metrics
	p.transportEventDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "transport_event_duration_milliseconds",
			Help:        "Duration of transport events in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"event", "status"},
	)

	p.connectionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "connection_state",
			Help:        "Current connection state (1=connected, 0=disconnected)",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"state"},
	)

	// Device metrics
	p.deviceCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "device_call_duration_milliseconds",
			Help:        "Duration of Remote API calls in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"call", "status"},
	)

	p.deviceCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "device_call_total",
			Help:        "Total number of Remote API calls",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"call", "status"},
	)
}

// registerMetrics registers all metrics with Prometheus
func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectors := []prometheus.Collector{
		p.requestDuration,
		p.requestTotal,
		p.notificationDuration,
		p.notificationTotal,
		p.batchRequestDuration,
		p.batchRequestTotal,
		p.batchRequestSize,
		p.incomingRequestDuration,
		p.incomingRequestTotal,
		p.transportEventDuration,
		p.connectionState,
		p.deviceCallDuration,
		p.deviceCallTotal,
	}

	for _, collector := range collectors {
		if err := prometheus.Register(collector); err != nil {
			// Check if already registered
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}

	return nil
}

// RecordRequest records an outgoing request
func (p *PrometheusMetricsProvider) RecordRequest(ctx context.Context, method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.requestDuration.WithLabelValues(method, status).Observe(ms)
	p.requestTotal.WithLabelValues(method, status).Inc()
}

// RecordNotification records an outgoing notification
func (p *PrometheusMetricsProvider) RecordNotification(ctx context.Context, method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.notificationDuration.WithLabelValues(method, status).Observe(ms)
	p.notificationTotal.WithLabelValues(method, status).Inc()
}

// RecordBatchRequest records a batch request
func (p *PrometheusMetricsProvider) RecordBatchRequest(ctx context.Context, size int, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.batchRequestDuration.WithLabelValues(status).Observe(ms)
	p.batchRequestTotal.WithLabelValues(status).Inc()
	p.batchRequestSize.WithLabelValues(status).Observe(float64(size))
}

// RecordIncomingRequest records an incoming request
func (p *PrometheusMetricsProvider) RecordIncomingRequest(ctx context.Context, method, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.incomingRequestDuration.WithLabelValues(method, status).Observe(ms)
	p.incomingRequestTotal.WithLabelValues(method, status).Inc()
}

// RecordIncomingNotification records an incoming notification
func (p *PrometheusMetricsProvider) RecordIncomingNotification(ctx context.Context, method, status string, duration time.Duration) {
	// Use incoming request metrics for notifications too
	p.RecordIncomingRequest(ctx, method, status, duration)
}

// RecordIncomingBatchRequest records an incoming batch request
func (p *PrometheusMetricsProvider) RecordIncomingBatchRequest(ctx context.Context, size int, status string, duration time.Duration) {
	// Record as batch with size information
	p.RecordBatchRequest(ctx, size, status, duration)
}

// RecordTransportEvent records a transport event
func (p *PrometheusMetricsProvider) RecordTransportEvent(ctx context.Context, event, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.transportEventDuration.WithLabelValues(event, status).Observe(ms)
}

// RecordConnectionState records the current connection state
func (p *PrometheusMetricsProvider) RecordConnectionState(ctx context.Context, state string) {
	// Reset all states to 0
	p.connectionState.WithLabelValues("connected").Set(0)
	p.connectionState.WithLabelValues("disconnected").Set(0)
	p.connectionState.WithLabelValues("connecting").Set(0)

	// Set current state to 1
	p.connectionState.WithLabelValues(state).Set(1)
}

// RecordDeviceCall records a Remote API call against the audio engine
func (p *PrometheusMetricsProvider) RecordDeviceCall(ctx context.Context, call, status string, duration time.Duration) {
	ms := float64(duration.Milliseconds())
	p.deviceCallDuration.WithLabelValues(call, status).Observe(ms)
	p.deviceCallTotal.WithLabelValues(call, status).Inc()
}

// Start starts the metrics HTTP server
func (p *PrometheusMetricsProvider) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(p.config.MetricsPath, promhttp.Handler())

	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", p.config.MetricsPort),
		Handler: mux,
	}

	go func() {
		_ = p.server.ListenAndServe()
	}()

	return nil
}

// Shutdown gracefully shuts down the metrics server
func (p *PrometheusMetricsProvider) Shutdown(ctx context.Context) error {
	if p.server != nil {
		return p.server.Shutdown(ctx)
	}
	return nil
}
