package metrics

import (
	"context"

	"github.com/kilianp07/railctl/core/events"
	coremetrics "github.com/kilianp07/railctl/core/metrics"
	"github.com/kilianp07/railctl/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// engine events. Every detection and optimization pass, whether triggered by
// the API, the ticker or the CLI, reaches the sinks through this single path.
// It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.ConflictsDetectedEvent:
					_ = sink.RecordDetection(coremetrics.DetectionEvent{
						Trains:    e.Trains,
						Conflicts: e.Conflicts,
						Component: "collector",
						Time:      e.At,
					})
				case events.OptimizeAppliedEvent:
					if r, ok := sink.(coremetrics.OptimizationRecorder); ok {
						_ = r.RecordOptimization(coremetrics.OptimizationEvent{
							Metrics:   e.Metrics,
							Component: "collector",
							Time:      e.At,
						})
					}
				}
			}
		}
	}()
}
