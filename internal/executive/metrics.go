package executive

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	validated *prometheus.CounterVec
	applied   *prometheus.CounterVec
	batch     prometheus.Histogram
}

// NewMetrics creates the executive collectors and registers them with reg
// when it is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primitives",
			Subsystem: "executive",
			Name:      "transactions_validated_total",
			Help:      "Transactions validated, by validity outcome.",
		}, []string{"outcome"}),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "primitives",
			Subsystem: "executive",
			Name:      "extrinsics_applied_total",
			Help:      "Extrinsics applied, by result.",
		}, []string{"result"}),
		batch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "primitives",
			Subsystem: "executive",
			Name:      "validate_batch_size",
			Help:      "Number of transactions per validated batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.validated, m.applied, m.batch} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
