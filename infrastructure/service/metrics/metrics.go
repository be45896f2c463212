package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codemastery"

// Recorder counts authentication outcomes. Reasons are the short labels
// from domainerr.Reason and never leave the process except through /metrics.
type Recorder interface {
	TokenVerified(tokenType, outcome string)
	LoginAttempt(outcome string)
	TokensIssued(reason string)
}

type AuthMetrics struct {
	verifications *prometheus.CounterVec
	logins        *prometheus.CounterVec
	issued        *prometheus.CounterVec
	gatherer      prometheus.Gatherer
}

var _ Recorder = (*AuthMetrics)(nil)

// NewAuthMetrics registers its collectors on a fresh registry, so tests and
// parallel servers never collide on the global default.
func NewAuthMetrics() *AuthMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return newAuthMetrics(registry, registry)
}

func newAuthMetrics(registerer prometheus.Registerer, gatherer prometheus.Gatherer) *AuthMetrics {
	m := &AuthMetrics{
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_verifications_total",
			Help:      "Bearer token verifications by expected token type and outcome.",
		}, []string{"token_type", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "token_pairs_issued_total",
			Help:      "Token pairs issued, by login or refresh.",
		}, []string{"reason"}),
		gatherer: gatherer,
	}
	registerer.MustRegister(m.verifications, m.logins, m.issued)
	return m
}

func (m *AuthMetrics) TokenVerified(tokenType, outcome string) {
	m.verifications.WithLabelValues(tokenType, outcome).Inc()
}

func (m *AuthMetrics) LoginAttempt(outcome string) {
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *AuthMetrics) TokensIssued(reason string) {
	m.issued.WithLabelValues(reason).Inc()
}

func (m *AuthMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Nop discards every observation.
type Nop struct{}

func (Nop) TokenVerified(string, string) {}
func (Nop) LoginAttempt(string)          {}
func (Nop) TokensIssued(string)          {}
