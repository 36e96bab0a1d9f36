package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "crispr_bot"

// Metrics holds the bot's collectors. A nil *Metrics records nothing.
type Metrics struct {
	commands        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	tokenRefresh    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Slash commands handled, by subcommand and outcome.",
		}, []string{"subcommand", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "idt_request_duration_seconds",
			Help:      "Latency of design API calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation"}),
		tokenRefresh: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refresh_total",
			Help:      "Access token exchanges against the identity endpoint.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.commands, m.requestDuration, m.tokenRefresh)
	}
	return m
}

func (m *Metrics) ObserveCommand(subcommand, outcome string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(subcommand, outcome).Inc()
}

func (m *Metrics) ObserveRequest(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) ObserveTokenRefresh(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.tokenRefresh.WithLabelValues(result).Inc()
}

// Handler exposes the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
