package metrics

import (
	"sync"
	"sync/atomic"

	"github.com/kilianp07/routetime/core/logger"
)

// DefaultQueueSize bounds the events an AsyncSink holds before dropping.
const DefaultQueueSize = 256

// AsyncSink records events on a single background goroutine so slow sinks
// never hold up the caller. Events are dropped when the queue is full;
// Close drains what is queued before closing the wrapped sink.
type AsyncSink struct {
	inner MetricsSink
	log   logger.Logger
	queue chan func() error

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	dropped atomic.Uint64
}

// NewAsyncSink starts the worker for inner. size <= 0 selects DefaultQueueSize.
func NewAsyncSink(inner MetricsSink, size int, log logger.Logger) *AsyncSink {
	if size <= 0 {
		size = DefaultQueueSize
	}
	s := &AsyncSink{
		inner: inner,
		log:   log,
		queue: make(chan func() error, size),
		done:  make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AsyncSink) run() {
	defer close(s.done)
	for rec := range s.queue {
		if err := rec(); err != nil && s.log != nil {
			s.log.Warnf("record metrics: %v", err)
		}
	}
}

func (s *AsyncSink) enqueue(rec func() error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.queue <- rec:
	default:
		if s.dropped.Add(1)%100 == 1 && s.log != nil {
			s.log.Warnf("metrics queue full, %d events dropped", s.dropped.Load())
		}
	}
}

// RecordPrediction queues the event and returns immediately.
func (s *AsyncSink) RecordPrediction(ev PredictionEvent) error {
	s.enqueue(func() error { return s.inner.RecordPrediction(ev) })
	return nil
}

// RecordTraining queues the event when the wrapped sink records training runs.
func (s *AsyncSink) RecordTraining(ev TrainingEvent) error {
	rec, ok := s.inner.(TrainingRecorder)
	if !ok {
		return nil
	}
	s.enqueue(func() error { return rec.RecordTraining(ev) })
	return nil
}

// Dropped reports how many events were discarded.
func (s *AsyncSink) Dropped() uint64 { return s.dropped.Load() }

// Close stops accepting events, waits for the queue to drain and closes the
// wrapped sink.
func (s *AsyncSink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.queue)
	s.mu.Unlock()
	<-s.done
	return Close(s.inner)
}
