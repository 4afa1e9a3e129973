package metrics

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
)

type fakePublisher struct {
	topics   []string
	payloads [][]byte
	err      error
	closed   bool
}

func (f *fakePublisher) Publish(suffix string, payload []byte) error {
	f.topics = append(f.topics, suffix)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestMQTTSink_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewMQTTSink(pub)
	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{RequestID: "r1", Outcome: coremetrics.OutcomeOK, DurationSec: 12.5}))
	require.NoError(t, sink.RecordTraining(coremetrics.TrainingEvent{ModelID: "m1"}))
	assert.Equal(t, []string{"predictions", "training"}, pub.topics)

	var ev coremetrics.PredictionEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &ev))
	assert.Equal(t, "r1", ev.RequestID)
	assert.Equal(t, 12.5, ev.DurationSec)

	require.NoError(t, sink.Close())
	assert.True(t, pub.closed)
}

func TestMQTTSink_PropagatesError(t *testing.T) {
	boom := errors.New("offline")
	sink := NewMQTTSink(&fakePublisher{err: boom})
	assert.ErrorIs(t, sink.RecordPrediction(coremetrics.PredictionEvent{}), boom)
}
