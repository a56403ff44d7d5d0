package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		settlementCallsTotal,
		reconcilerSweepsTotal,
		reconcilerRecoveredTotal,
	)
}

var (
	// outcome: ok|error. A settlement error after a verified payment is the
	// dangerous class (gateway paid, backend unpaid) and is alertable.
	settlementCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_calls_total",
			Help: "Backend mark-paid calls by outcome.",
		},
		[]string{"outcome"},
	)

	reconcilerSweepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_reconciler_sweeps_total",
			Help: "Number of reconciler sweep ticks executed.",
		},
	)

	reconcilerRecoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "settlement_reconciler_recovered_total",
			Help: "Verified-but-unsettled payments the reconciler settled.",
		},
	)
)

func IncSettlementCall(outcome string) {
	settlementCallsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncReconcilerSweep() { reconcilerSweepsTotal.Inc() }

func AddReconcilerRecovered(n int) { reconcilerRecoveredTotal.Add(float64(n)) }
