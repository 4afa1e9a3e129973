package metrics

import (
	"errors"
	"time"

	"github.com/kilianp07/routetime/core/model"
)

// Prediction outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeInferenceError = "inference_error"
)

// PredictionEvent describes one handled prediction request.
type PredictionEvent struct {
	RequestID   string              `json:"request_id"`
	ModelID     string              `json:"model_id"`
	Features    model.FeatureVector `json:"features"`
	DurationSec float64             `json:"predicted_duration_sec"`
	Outcome     string              `json:"outcome"`
	Error       string              `json:"error,omitempty"`
	Latency     time.Duration       `json:"latency_ns"`
	Time        time.Time           `json:"time"`
}

// MetricsSink records prediction events.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// TrainingEvent summarises a completed training run.
type TrainingEvent struct {
	ModelID  string        `json:"model_id"`
	Path     string        `json:"path"`
	Samples  int           `json:"samples"`
	Trees    int           `json:"trees"`
	RMSE     float64       `json:"rmse"`
	R2       float64       `json:"r2"`
	Duration time.Duration `json:"duration_ns"`
	Time     time.Time     `json:"time"`
}

// TrainingRecorder is implemented by sinks able to record training runs.
type TrainingRecorder interface {
	RecordTraining(ev TrainingEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordTraining(TrainingEvent) error     { return nil }

// MultiSink fans events out to several sinks. Every sink is called even
// when an earlier one fails; the errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks.
func (m *MultiSink) RecordPrediction(ev PredictionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordTraining forwards the event to the sinks that record training runs.
func (m *MultiSink) RecordTraining(ev TrainingEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(TrainingRecorder); ok {
			if err := rec.RecordTraining(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes the sinks that hold resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes s when it holds resources.
func Close(s MetricsSink) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
