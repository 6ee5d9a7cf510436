package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/railctl/core/metrics"
	"github.com/kilianp07/railctl/core/model"
)

func newTestSink(t *testing.T) *PromSink {
	t.Helper()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, prometheus.NewRegistry())
	require.NoError(t, err)
	return sink.(*PromSink)
}

func TestPromSinkRecordDetection(t *testing.T) {
	sink := newTestSink(t)
	ev := coremetrics.DetectionEvent{
		Trains: 3,
		Conflicts: []model.Conflict{
			{SectionID: "SEC_004", Severity: 3},
			{SectionID: "SEC_004", Severity: 3},
			{SectionID: "SEC_001", Severity: 5},
		},
		Time: time.Now(),
	}
	require.NoError(t, sink.RecordDetection(ev))
	require.NoError(t, sink.RecordDetection(coremetrics.DetectionEvent{}))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.detections))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.conflicts.WithLabelValues("SEC_004", "3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.conflicts.WithLabelValues("SEC_001", "5")))
}

func TestPromSinkRecordOptimization(t *testing.T) {
	sink := newTestSink(t)
	ev := coremetrics.OptimizationEvent{
		Metrics: model.OptimizationMetrics{AdditionalDelay: 30, ConflictsResolved: 2},
	}
	require.NoError(t, sink.RecordOptimization(ev))
	require.NoError(t, sink.RecordOptimization(ev))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.optimizations))
	assert.Equal(t, 60.0, testutil.ToFloat64(sink.addedDelay))
}

func TestPromSinkRecordTrainDelay(t *testing.T) {
	sink := newTestSink(t)
	require.NoError(t, sink.RecordTrainDelay(coremetrics.TrainDelayEvent{Number: "12345", DelayMinutes: 15}))
	require.NoError(t, sink.RecordTrainDelay(coremetrics.TrainDelayEvent{Number: "12345", DelayMinutes: 5}))
	assert.Equal(t, 5.0, testutil.ToFloat64(sink.trainDelay.WithLabelValues("12345")))
}

func TestPromSinkDoubleRegistrationSharesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	// The second sink must reuse the registered collectors, so its increments
	// are visible on the scrape the registry serves.
	require.NoError(t, second.(*PromSink).RecordOptimization(coremetrics.OptimizationEvent{
		Metrics: model.OptimizationMetrics{AdditionalDelay: 15},
	}))
	assert.Equal(t, 1.0, testutil.ToFloat64(first.(*PromSink).optimizations))
	assert.Equal(t, 15.0, testutil.ToFloat64(first.(*PromSink).addedDelay))
}

func TestMultiSinkFansOut(t *testing.T) {
	a := newTestSink(t)
	b := newTestSink(t)
	multi := NewMultiSink(a, b)

	ev := coremetrics.DetectionEvent{Conflicts: []model.Conflict{{SectionID: "S1", Severity: 2}}}
	require.NoError(t, multi.RecordDetection(ev))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.detections))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.detections))
}
