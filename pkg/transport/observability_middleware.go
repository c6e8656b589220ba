package transport

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/logging"
	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// ObservabilityMiddleware adds in-process counters and structured logging to
// a transport. It has no external dependencies; the Prometheus/OTel layer in
// pkg/observability builds on the same Middleware interface.
type ObservabilityMiddleware struct {
	config  ObservabilityConfig
	metrics *transportMetrics
	logger  logging.Logger
}

// NewObservabilityMiddleware creates a new observability middleware
func NewObservabilityMiddleware(config ObservabilityConfig) Middleware {
	logger := logging.New(os.Stderr, logging.NewTextFormatter()).WithFields(
		logging.String("component", "transport"),
	)
	if config.LogLevel == "debug" {
		logger.SetLevel(logging.DebugLevel)
	}

	return &ObservabilityMiddleware{
		config:  config,
		metrics: newTransportMetrics(config.MetricsPrefix),
		logger:  logger,
	}
}

// Wrap implements the Middleware interface
func (om *ObservabilityMiddleware) Wrap(transport Transport) Transport {
	return &observabilityTransport{
		middlewareTransport: middlewareTransport{next: transport},
		middleware:          om,
	}
}

// observabilityTransport wraps a transport with observability features
type observabilityTransport struct {
	middlewareTransport
	middleware *ObservabilityMiddleware
}

// SendRequest wraps the underlying SendRequest with counters and logs.
func (ot *observabilityTransport) SendRequest(ctx context.Context, method string, params interface{}) (interface{}, error) {
	om := ot.middleware
	start := time.Now()

	if om.config.EnableMetrics {
		om.metrics.incRequestsTotal(method)
	}

	result, err := ot.middlewareTransport.SendRequest(ctx, method, params)
	duration := time.Since(start)

	if err != nil {
		if om.config.EnableLogging {
			om.logger.Warn("request failed",
				logging.String("method", method),
				logging.Duration("duration", duration),
				logging.ErrorField(err))
		}
		if om.config.EnableMetrics {
			om.metrics.incRequestsErrors(method)
		}
	} else {
		if om.config.EnableLogging {
			om.logger.Debug("request succeeded",
				logging.String("method", method),
				logging.Duration("duration", duration))
		}
		if om.config.EnableMetrics {
			om.metrics.incRequestsSuccess(method)
		}
	}

	if om.config.EnableMetrics {
		om.metrics.observeRequestDuration(method, duration)
	}

	return result, err
}

// SendNotification wraps the underlying SendNotification.
func (ot *observabilityTransport) SendNotification(ctx context.Context, method string, params interface{}) error {
	om := ot.middleware
	start := time.Now()

	if om.config.EnableMetrics {
		om.metrics.incNotificationsTotal(method)
	}

	err := ot.middlewareTransport.SendNotification(ctx, method, params)
	duration := time.Since(start)

	if err != nil {
		if om.config.EnableLogging {
			om.logger.Warn("notification failed",
				logging.String("method", method),
				logging.Duration("duration", duration),
				logging.ErrorField(err))
		}
		if om.config.EnableMetrics {
			om.metrics.incNotificationsErrors(method)
		}
	} else {
		if om.config.EnableMetrics {
			om.metrics.incNotificationsSuccess(method)
		}
	}

	if om.config.EnableMetrics {
		om.metrics.observeNotificationDuration(method, duration)
	}

	return err
}

// Initialize wraps the underlying Initialize.
func (ot *observabilityTransport) Initialize(ctx context.Context) error {
	om := ot.middleware

	err := ot.middlewareTransport.Initialize(ctx)

	if err != nil {
		if om.config.EnableLogging {
			om.logger.Error("transport initialization failed", logging.ErrorField(err))
		}
		if om.config.EnableMetrics {
			om.metrics.incInitializationErrors()
		}
	} else {
		if om.config.EnableMetrics {
			om.metrics.incInitializationSuccess()
		}
	}

	return err
}

// Start wraps the underlying Start; it blocks for the transport lifetime.
func (ot *observabilityTransport) Start(ctx context.Context) error {
	om := ot.middleware

	if om.config.EnableLogging {
		om.logger.Info("transport starting")
	}
	if om.config.EnableMetrics {
		om.metrics.setTransportState("running")
	}

	err := ot.middlewareTransport.Start(ctx)

	if om.config.EnableLogging {
		if err != nil {
			om.logger.Warn("transport stopped with error", logging.ErrorField(err))
		} else {
			om.logger.Info("transport stopped")
		}
	}
	if om.config.EnableMetrics {
		om.metrics.setTransportState("stopped")
	}

	return err
}

// Stop wraps the underlying Stop.
func (ot *observabilityTransport) Stop(ctx context.Context) error {
	om := ot.middleware

	err := ot.middlewareTransport.Stop(ctx)

	if err != nil && om.config.EnableLogging {
		om.logger.Warn("transport stop failed", logging.ErrorField(err))
	}
	if om.config.EnableMetrics {
		om.metrics.setTransportState("stopped")
	}

	return err
}

// HandleRequest wraps the underlying HandleRequest. This is the path every
// tool and resource call takes, so the per-method counters here are the
// server's primary request accounting.
func (ot *observabilityTransport) HandleRequest(ctx context.Context, request *protocol.Request) (*protocol.Response, error) {
	om := ot.middleware
	start := time.Now()

	if om.config.EnableMetrics {
		om.metrics.incIncomingRequestsTotal(request.Method)
	}

	response, err := ot.middlewareTransport.HandleRequest(ctx, request)
	duration := time.Since(start)

	if err != nil {
		if om.config.EnableLogging {
			om.logger.Warn("incoming request failed",
				logging.String("method", request.Method),
				logging.Any("id", request.ID),
				logging.Duration("duration", duration),
				logging.ErrorField(err))
		}
		if om.config.EnableMetrics {
			om.metrics.incIncomingRequestsErrors(request.Method)
		}
	} else {
		if om.config.EnableLogging {
			om.logger.Debug("incoming request handled",
				logging.String("method", request.Method),
				logging.Any("id", request.ID),
				logging.Duration("duration", duration))
		}
		if om.config.EnableMetrics {
			om.metrics.incIncomingRequestsSuccess(request.Method)
		}
	}

	if om.config.EnableMetrics {
		om.metrics.observeIncomingRequestDuration(request.Method, duration)
	}

	return response, err
}

// HandleNotification wraps the underlying HandleNotification.
func (ot *observabilityTransport) HandleNotification(ctx context.Context, notification *protocol.Notification) error {
	om := ot.middleware
	start := time.Now()

	if om.config.EnableMetrics {
		om.metrics.incIncomingNotificationsTotal(notification.Method)
	}

	err := ot.middlewareTransport.HandleNotification(ctx, notification)
	duration := time.Since(start)

	if err != nil {
		if om.config.EnableMetrics {
			om.metrics.incIncomingNotificationsErrors(notification.Method)
		}
	} else {
		if om.config.EnableMetrics {
			om.metrics.incIncomingNotificationsSuccess(notification.Method)
		}
	}

	if om.config.EnableMetrics {
		om.metrics.observeIncomingNotificationDuration(notification.Method, duration)
	}

	return err
}

// GetMetrics returns the current metrics snapshot
func (ot *observabilityTransport) GetMetrics() *TransportMetricsSnapshot {
	if ot.middleware.config.EnableMetrics {
		return ot.middleware.metrics.snapshot()
	}
	return nil
}

// transportMetrics holds per-method transport counters
type transportMetrics struct {
	prefix string

	// Request metrics
	requestsTotal    map[string]*atomic.Int64
	requestsSuccess  map[string]*atomic.Int64
	requestsErrors   map[string]*atomic.Int64
	requestDurations map[string]*durationTracker

	// Notification metrics
	notificationsTotal    map[string]*atomic.Int64
	notificationsSuccess  map[string]*atomic.Int64
	notificationsErrors   map[string]*atomic.Int64
	notificationDurations map[string]*durationTracker

	// Incoming request metrics
	incomingRequestsTotal    map[string]*atomic.Int64
	incomingRequestsSuccess  map[string]*atomic.Int64
	incomingRequestsErrors   map[string]*atomic.Int64
	incomingRequestDurations map[string]*durationTracker

	// Incoming notification metrics
	incomingNotificationsTotal    map[string]*atomic.Int64
	incomingNotificationsSuccess  map[string]*atomic.Int64
	incomingNotificationsErrors   map[string]*atomic.Int64
	incomingNotificationDurations map[string]*durationTracker

	// Transport lifecycle metrics
	initializationSuccess *atomic.Int64
	initializationErrors  *atomic.Int64
	transportState        string

	mu sync.RWMutex
}

// newTransportMetrics creates a new metrics collection
func newTransportMetrics(prefix string) *transportMetrics {
	return &transportMetrics{
		prefix:                        prefix,
		requestsTotal:                 make(map[string]*atomic.Int64),
		requestsSuccess:               make(map[string]*atomic.Int64),
		requestsErrors:                make(map[string]*atomic.Int64),
		requestDurations:              make(map[string]*durationTracker),
		notificationsTotal:            make(map[string]*atomic.Int64),
		notificationsSuccess:          make(map[string]*atomic.Int64),
		notificationsErrors:           make(map[string]*atomic.Int64),
		notificationDurations:         make(map[string]*durationTracker),
		incomingRequestsTotal:         make(map[string]*atomic.Int64),
		incomingRequestsSuccess:       make(map[string]*atomic.Int64),
		incomingRequestsErrors:        make(map[string]*atomic.Int64),
		incomingRequestDurations:      make(map[string]*durationTracker),
		incomingNotificationsTotal:    make(map[string]*atomic.Int64),
		incomingNotificationsSuccess:  make(map[string]*atomic.Int64),
		incomingNotificationsErrors:   make(map[string]*atomic.Int64),
		incomingNotificationDurations: make(map[string]*durationTracker),
		initializationSuccess:         &atomic.Int64{},
		initializationErrors:          &atomic.Int64{},
		transportState:                "stopped",
	}
}

func (tm *transportMetrics) incRequestsTotal(method string) {
	tm.getOrCreateInt64Counter(tm.requestsTotal, method).Add(1)
}

func (tm *transportMetrics) incRequestsSuccess(method string) {
	tm.getOrCreateInt64Counter(tm.requestsSuccess, method).Add(1)
}

func (tm *transportMetrics) incRequestsErrors(method string) {
	tm.getOrCreateInt64Counter(tm.requestsErrors, method).Add(1)
}

func (tm *transportMetrics) observeRequestDuration(method string, duration time.Duration) {
	tm.getOrCreateDurationTracker(tm.requestDurations, method).observe(duration)
}

func (tm *transportMetrics) incNotificationsTotal(method string) {
	tm.getOrCreateInt64Counter(tm.notificationsTotal, method).Add(1)
}

func (tm *transportMetrics) incNotificationsSuccess(method string) {
	tm.getOrCreateInt64Counter(tm.notificationsSuccess, method).Add(1)
}

func (tm *transportMetrics) incNotificationsErrors(method string) {
	tm.getOrCreateInt64Counter(tm.notificationsErrors, method).Add(1)
}

func (tm *transportMetrics) observeNotificationDuration(method string, duration time.Duration) {
	tm.getOrCreateDurationTracker(tm.notificationDurations, method).observe(duration)
}

func (tm *transportMetrics) incIncomingRequestsTotal(method string) {
	tm.getOrCreateInt64Counter(tm.incomingRequestsTotal, method).Add(1)
}

func (tm *transportMetrics) incIncomingRequestsSuccess(method string) {
	tm.getOrCreateInt64Counter(tm.incomingRequestsSuccess, method).Add(1)
}

func (tm *transportMetrics) incIncomingRequestsErrors(method string) {
	tm.getOrCreateInt64Counter(tm.incomingRequestsErrors, method).Add(1)
}

func (tm *transportMetrics) observeIncomingRequestDuration(method string, duration time.Duration) {
	tm.getOrCreateDurationTracker(tm.incomingRequestDurations, method).observe(duration)
}

func (tm *transportMetrics) incIncomingNotificationsTotal(method string) {
	tm.getOrCreateInt64Counter(tm.incomingNotificationsTotal, method).Add(1)
}

func (tm *transportMetrics) incIncomingNotificationsSuccess(method string) {
	tm.getOrCreateInt64Counter(tm.incomingNotificationsSuccess, method).Add(1)
}

func (tm *transportMetrics) incIncomingNotificationsErrors(method string) {
	tm.getOrCreateInt64Counter(tm.incomingNotificationsErrors, method).Add(1)
}

func (tm *transportMetrics) observeIncomingNotificationDuration(method string, duration time.Duration) {
	tm.getOrCreateDurationTracker(tm.incomingNotificationDurations, method).observe(duration)
}

func (tm *transportMetrics) incInitializationSuccess() {
	tm.initializationSuccess.Add(1)
}

func (tm *transportMetrics) incInitializationErrors() {
	tm.initializationErrors.Add(1)
}

func (tm *transportMetrics) setTransportState(state string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.transportState = state
}

// getOrCreateInt64Counter gets or creates an atomic int64 counter for a method
func (tm *transportMetrics) getOrCreateInt64Counter(counters map[string]*atomic.Int64, method string) *atomic.Int64 {
	tm.mu.RLock()
	if counter, exists := counters[method]; exists {
		tm.mu.RUnlock()
		return counter
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()
	// Double-check after acquiring write lock
	if counter, exists := counters[method]; exists {
		return counter
	}

	counter := &atomic.Int64{}
	counters[method] = counter
	return counter
}

// getOrCreateDurationTracker gets or creates a duration tracker for a method
func (tm *transportMetrics) getOrCreateDurationTracker(trackers map[string]*durationTracker, method string) *durationTracker {
	tm.mu.RLock()
	if tracker, exists := trackers[method]; exists {
		tm.mu.RUnlock()
		return tracker
	}
	tm.mu.RUnlock()

	tm.mu.Lock()
	defer tm.mu.Unlock()
	if tracker, exists := trackers[method]; exists {
		return tracker
	}

	tracker := &durationTracker{}
	trackers[method] = tracker
	return tracker
}

// durationTracker tracks duration statistics
type durationTracker struct {
	count   atomic.Int64
	totalNs atomic.Int64
	minNs   atomic.Int64
	maxNs   atomic.Int64
	mu      sync.Mutex
}

func (dt *durationTracker) observe(duration time.Duration) {
	nanos := duration.Nanoseconds()

	dt.count.Add(1)
	dt.totalNs.Add(nanos)

	dt.mu.Lock()
	if current := dt.minNs.Load(); current == 0 || nanos < current {
		dt.minNs.Store(nanos)
	}
	if current := dt.maxNs.Load(); nanos > current {
		dt.maxNs.Store(nanos)
	}
	dt.mu.Unlock()
}

func (dt *durationTracker) stats() (count int64, total, min, max, avg time.Duration) {
	c := dt.count.Load()
	if c == 0 {
		return 0, 0, 0, 0, 0
	}

	totalNs := dt.totalNs.Load()
	minNs := dt.minNs.Load()
	maxNs := dt.maxNs.Load()

	return c, time.Duration(totalNs), time.Duration(minNs), time.Duration(maxNs), time.Duration(totalNs / c)
}

// TransportMetricsSnapshot represents a point-in-time view of transport metrics
type TransportMetricsSnapshot struct {
	TransportState        string                   `json:"transport_state"`
	Requests              map[string]MethodMetrics `json:"requests"`
	Notifications         map[string]MethodMetrics `json:"notifications"`
	IncomingRequests      map[string]MethodMetrics `json:"incoming_requests"`
	IncomingNotifications map[string]MethodMetrics `json:"incoming_notifications"`
	Initialization        InitializationMetrics    `json:"initialization"`
}

// MethodMetrics represents metrics for a specific method
type MethodMetrics struct {
	Total    int64           `json:"total"`
	Success  int64           `json:"success"`
	Errors   int64           `json:"errors"`
	Duration DurationMetrics `json:"duration"`
}

// DurationMetrics represents duration statistics
type DurationMetrics struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Avg   time.Duration `json:"avg"`
}

// InitializationMetrics represents initialization metrics
type InitializationMetrics struct {
	Success int64 `json:"success"`
	Errors  int64 `json:"errors"`
}

// snapshot creates a snapshot of current metrics
func (tm *transportMetrics) snapshot() *TransportMetricsSnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	snapshot := &TransportMetricsSnapshot{
		TransportState:        tm.transportState,
		Requests:              make(map[string]MethodMetrics),
		Notifications:         make(map[string]MethodMetrics),
		IncomingRequests:      make(map[string]MethodMetrics),
		IncomingNotifications: make(map[string]MethodMetrics),
		Initialization: InitializationMetrics{
			Success: tm.initializationSuccess.Load(),
			Errors:  tm.initializationErrors.Load(),
		},
	}

	collect := func(dst map[string]MethodMetrics,
		totals, successes, errors map[string]*atomic.Int64,
		durations map[string]*durationTracker) {
		for method := range totals {
			metrics := MethodMetrics{}
			if counter := totals[method]; counter != nil {
				metrics.Total = counter.Load()
			}
			if counter := successes[method]; counter != nil {
				metrics.Success = counter.Load()
			}
			if counter := errors[method]; counter != nil {
				metrics.Errors = counter.Load()
			}
			if tracker, exists := durations[method]; exists {
				count, total, min, max, avg := tracker.stats()
				metrics.Duration = DurationMetrics{
					Count: count,
					Total: total,
					Min:   min,
					Max:   max,
					Avg:   avg,
				}
			}
			dst[method] = metrics
		}
	}

	collect(snapshot.Requests, tm.requestsTotal, tm.requestsSuccess, tm.requestsErrors, tm.requestDurations)
	collect(snapshot.Notifications, tm.notificationsTotal, tm.notificationsSuccess, tm.notificationsErrors, tm.notificationDurations)
	collect(snapshot.IncomingRequests, tm.incomingRequestsTotal, tm.incomingRequestsSuccess, tm.incomingRequestsErrors, tm.incomingRequestDurations)
	collect(snapshot.IncomingNotifications, tm.incomingNotificationsTotal, tm.incomingNotificationsSuccess, tm.incomingNotificationsErrors, tm.incomingNotificationDurations)

	return snapshot
}

// String provides a human-readable representation of the metrics
func (snapshot *TransportMetricsSnapshot) String() string {
	return fmt.Sprintf("TransportMetrics{state=%s, requests=%d methods, notifications=%d methods, incoming_requests=%d methods, incoming_notifications=%d methods}",
		snapshot.TransportState,
		len(snapshot.Requests),
		len(snapshot.Notifications),
		len(snapshot.IncomingRequests),
		len(snapshot.IncomingNotifications))
}
