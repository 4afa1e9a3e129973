package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
)

func TestPromSink_RecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeOK, DurationSec: 300, Latency: time.Millisecond}))
	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeOK, DurationSec: 100, Latency: time.Millisecond}))
	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeInvalidInput}))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.predictions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.predictions.WithLabelValues("invalid_input")))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.latency))
	assert.Equal(t, 1, testutil.CollectAndCount(sink.durations))
}

func TestPromSink_RecordTraining(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordTraining(coremetrics.TrainingEvent{Samples: 250, RMSE: 12.5, R2: 0.8, Duration: 3 * time.Second}))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.trainings))
	assert.Equal(t, 250.0, testutil.ToFloat64(sink.samples))
	assert.Equal(t, 12.5, testutil.ToFloat64(sink.rmse))
	assert.Equal(t, 0.8, testutil.ToFloat64(sink.r2))
	assert.Equal(t, 3.0, testutil.ToFloat64(sink.trainTime))
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	b, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, a.RecordPrediction(coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeOK}))
	require.NoError(t, b.RecordPrediction(coremetrics.PredictionEvent{Outcome: coremetrics.OutcomeOK}))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.predictions.WithLabelValues("ok")))
}
