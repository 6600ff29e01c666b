package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments for the postback pipeline.
type Metrics struct {
	postbacks            *prometheus.CounterVec
	conversionsStored    prometheus.Counter
	storeFailures        prometheus.Counter
	notifications        *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	botCommandsProcessed *prometheus.CounterVec
}

const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
	OutcomeSent     = "sent"
	OutcomeFailed   = "failed"
	OutcomeMuted    = "muted"
)

// New registers the pipeline instruments on the given registerer.
func New(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		postbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "convtrack_postbacks_total",
			Help: "Inbound conversion postbacks by HTTP method and outcome.",
		}, []string{"method", "outcome"}),
		conversionsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "convtrack_conversions_stored_total",
			Help: "Conversion rows appended to storage.",
		}),
		storeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "convtrack_store_failures_total",
			Help: "Failed conversion append attempts.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "convtrack_notifications_total",
			Help: "Outbound chat notifications by outcome.",
		}, []string{"outcome"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "convtrack_http_request_duration_seconds",
			Help:    "HTTP request latency by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		botCommandsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "convtrack_bot_commands_total",
			Help: "Telegram bot commands processed by command name.",
		}, []string{"command"}),
	}

	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(
		m.postbacks,
		m.conversionsStored,
		m.storeFailures,
		m.notifications,
		m.httpRequestDuration,
		m.botCommandsProcessed,
	)
	return m
}

// Provide builds metrics on the default registry for fx wiring.
func Provide() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) IncPostback(method, outcome string) {
	if m == nil {
		return
	}
	m.postbacks.WithLabelValues(strings.ToUpper(method), outcome).Inc()
}

func (m *Metrics) IncConversionStored() {
	if m == nil {
		return
	}
	m.conversionsStored.Inc()
}

func (m *Metrics) IncStoreFailure() {
	if m == nil {
		return
	}
	m.storeFailures.Inc()
}

func (m *Metrics) IncNotification(outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncBotCommand(command string) {
	if m == nil {
		return
	}
	m.botCommandsProcessed.WithLabelValues(command).Inc()
}

// GinMiddleware records request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
