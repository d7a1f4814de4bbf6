package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	compileDuration *prom.HistogramVec
	compileOutcome  *prom.CounterVec
	snapshotProbes  *prom.CounterVec
	checkoutResults *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.compileDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "compattester",
			Name:      "compile_duration_seconds",
			Help:      "Duration of plugin compile invocations by strategy",
			Buckets:   prom.DefBuckets,
		}, []string{"strategy"})
		pr.compileOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "compattester",
			Name:      "compile_outcomes_total",
			Help:      "Compile outcomes by strategy and result",
		}, []string{"strategy", "result"})
		pr.snapshotProbes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "compattester",
			Name:      "snapshot_probes_total",
			Help:      "Version-evaluation probes by classification",
		}, []string{"snapshot"})
		pr.checkoutResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "compattester",
			Name:      "checkout_results_total",
			Help:      "Checkout stage results by success/failure",
		}, []string{"result"})
		reg.MustRegister(pr.compileDuration, pr.compileOutcome, pr.snapshotProbes, pr.checkoutResults)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveCompileDuration(strategy StrategyLabel, d time.Duration) {
	pr.compileDuration.WithLabelValues(string(strategy)).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncCompileOutcome(strategy StrategyLabel, success bool) {
	pr.compileOutcome.WithLabelValues(string(strategy), resultLabel(success)).Inc()
}

func (pr *PrometheusRecorder) IncSnapshotProbe(snapshot bool) {
	label := "false"
	if snapshot {
		label = "true"
	}
	pr.snapshotProbes.WithLabelValues(label).Inc()
}

func (pr *PrometheusRecorder) IncCheckoutResult(success bool) {
	pr.checkoutResults.WithLabelValues(resultLabel(success)).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
