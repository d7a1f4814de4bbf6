// Package metrics provides observability hooks for the compile stage.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics can be activated by swapping in the Prometheus
// implementation without touching call sites.
package metrics

import "time"

// StrategyLabel enumerates the compile strategy chosen for a plugin.
type StrategyLabel string

const (
	StrategyMultiParent StrategyLabel = "multi_parent"
	StrategyStandalone  StrategyLabel = "standalone"
)

// Recorder defines observability hooks for hook-chain and compile metrics.
// All methods must be cheap no-ops in the NoopRecorder so optional injection
// carries no overhead.
type Recorder interface {
	ObserveCompileDuration(strategy StrategyLabel, d time.Duration)
	IncCompileOutcome(strategy StrategyLabel, success bool)
	IncSnapshotProbe(snapshot bool)
	IncCheckoutResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveCompileDuration(StrategyLabel, time.Duration) {}
func (NoopRecorder) IncCompileOutcome(StrategyLabel, bool)               {}
func (NoopRecorder) IncSnapshotProbe(bool)                               {}
func (NoopRecorder) IncCheckoutResult(bool)                              {}
