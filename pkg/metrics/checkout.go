package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for the order placement pipeline.
type CheckoutMetrics struct {
	placed    prometheus.Counter
	rejected  *prometheus.CounterVec
	duration  prometheus.Histogram
	recorded  prometheus.Counter
	settled   prometheus.Counter
	cancelled prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders accepted at checkout.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Orders rejected at checkout by reason.",
	}, []string{"reason"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	recorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "design_commissions_recorded_total",
		Help: "Design commissions recorded at checkout.",
	})
	settled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "design_commissions_settled_total",
		Help: "Design commissions settled on delivery.",
	})
	cancelled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "design_commissions_cancelled_total",
		Help: "Design commissions cancelled with their order.",
	})
	reg.MustRegister(placed, rejected, duration, recorded, settled, cancelled)
	return &CheckoutMetrics{
		placed:    placed,
		rejected:  rejected,
		duration:  duration,
		recorded:  recorded,
		settled:   settled,
		cancelled: cancelled,
	}
}

// IncPlaced increments the accepted-order counter.
func (c *CheckoutMetrics) IncPlaced() {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.Inc()
}

// IncRejected increments the rejected-order counter for the given reason.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObservePlacementDuration records how long a placement transaction took.
func (c *CheckoutMetrics) ObservePlacementDuration(duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.Observe(duration.Seconds())
}

// AddCommissionsRecorded adds to the recorded-commission counter.
func (c *CheckoutMetrics) AddCommissionsRecorded(n int) {
	if c == nil || c.recorded == nil || n <= 0 {
		return
	}
	c.recorded.Add(float64(n))
}

// AddCommissionsSettled adds to the settled-commission counter.
func (c *CheckoutMetrics) AddCommissionsSettled(n int) {
	if c == nil || c.settled == nil || n <= 0 {
		return
	}
	c.settled.Add(float64(n))
}

// AddCommissionsCancelled adds to the cancelled-commission counter.
func (c *CheckoutMetrics) AddCommissionsCancelled(n int) {
	if c == nil || c.cancelled == nil || n <= 0 {
		return
	}
	c.cancelled.Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
