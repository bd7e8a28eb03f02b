package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes and latency of the checkout and
// cancellation flows.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	outcome  *prometheus.CounterVec
	softFail *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_flow_duration_seconds",
		Help:    "Duration of checkout and cancellation flows in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"flow"})
	outcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_flow_outcome",
		Help: "Terminal outcomes of checkout and cancellation flows.",
	}, []string{"flow", "outcome"})
	softFail := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_soft_step_failures",
		Help: "Non-aborting step failures that left an inconsistent end state.",
	}, []string{"flow", "step"})
	reg.MustRegister(duration, outcome, softFail)
	return &CheckoutMetrics{
		duration: duration,
		outcome:  outcome,
		softFail: softFail,
	}
}

// ObserveDuration records how long the named flow took.
func (c *CheckoutMetrics) ObserveDuration(flow string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(flow)).Observe(duration.Seconds())
}

// IncOutcome increments the terminal outcome counter for the named flow.
func (c *CheckoutMetrics) IncOutcome(flow, outcome string) {
	if c == nil || c.outcome == nil {
		return
	}
	c.outcome.WithLabelValues(normalizeLabel(flow), normalizeLabel(outcome)).Inc()
}

// IncSoftFailure increments the counter for a logged-only step failure.
func (c *CheckoutMetrics) IncSoftFailure(flow, step string) {
	if c == nil || c.softFail == nil {
		return
	}
	c.softFail.WithLabelValues(normalizeLabel(flow), normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
