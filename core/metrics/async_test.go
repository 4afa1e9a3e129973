package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gatedSink struct {
	gate chan struct{}

	mu          sync.Mutex
	predictions []string
	trainings   int
	closed      bool
}

func (g *gatedSink) RecordPrediction(ev PredictionEvent) error {
	<-g.gate
	g.mu.Lock()
	defer g.mu.Unlock()
	g.predictions = append(g.predictions, ev.RequestID)
	return errors.New("broker offline")
}

func (g *gatedSink) RecordTraining(TrainingEvent) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.trainings++
	return nil
}

func (g *gatedSink) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func TestAsyncSink_ReturnsBeforeInnerCompletes(t *testing.T) {
	inner := &gatedSink{gate: make(chan struct{})}
	s := NewAsyncSink(inner, 8, nil)

	done := make(chan struct{})
	go func() {
		assert.NoError(t, s.RecordPrediction(PredictionEvent{RequestID: "a"}))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordPrediction blocked on the wrapped sink")
	}

	close(inner.gate)
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"a"}, inner.predictions)
	assert.True(t, inner.closed)
}

func TestAsyncSink_DropsWhenFull(t *testing.T) {
	inner := &gatedSink{gate: make(chan struct{})}
	s := NewAsyncSink(inner, 2, nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, s.RecordPrediction(PredictionEvent{}))
	}
	// One event may be held by the worker, two wait in the queue.
	assert.GreaterOrEqual(t, s.Dropped(), uint64(7))

	close(inner.gate)
	require.NoError(t, s.Close())
	assert.Equal(t, uint64(10), s.Dropped()+uint64(len(inner.predictions)))
}

func TestAsyncSink_CloseDrainsAndRejectsLateEvents(t *testing.T) {
	inner := &gatedSink{gate: make(chan struct{})}
	close(inner.gate)
	s := NewAsyncSink(inner, 0, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordPrediction(PredictionEvent{}))
	}
	require.NoError(t, s.RecordTraining(TrainingEvent{ModelID: "m"}))
	require.NoError(t, s.Close())
	assert.Len(t, inner.predictions, 5)
	assert.Equal(t, 1, inner.trainings)

	require.NoError(t, s.RecordPrediction(PredictionEvent{}))
	assert.Equal(t, uint64(1), s.Dropped())
	require.NoError(t, s.Close())
}

func TestAsyncSink_SkipsTrainingForPredictionOnlySink(t *testing.T) {
	inner := &predictionOnly{}
	s := NewAsyncSink(inner, 1, nil)
	require.NoError(t, s.RecordTraining(TrainingEvent{}))
	require.NoError(t, s.RecordPrediction(PredictionEvent{}))
	require.NoError(t, s.Close())
	assert.Equal(t, 1, inner.count)
}
