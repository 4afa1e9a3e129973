package metrics

import (
	"encoding/json"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
)

// publisher is satisfied by *mqtt.Publisher.
type publisher interface {
	Publish(suffix string, payload []byte) error
	Close() error
}

// MQTTSink publishes events as JSON on <prefix>/predictions and <prefix>/training.
type MQTTSink struct {
	pub publisher
}

// NewMQTTSink wraps a connected publisher.
func NewMQTTSink(pub publisher) *MQTTSink {
	return &MQTTSink{pub: pub}
}

// RecordPrediction publishes the event.
func (s *MQTTSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.pub.Publish("predictions", payload)
}

// RecordTraining publishes the event.
func (s *MQTTSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.pub.Publish("training", payload)
}

// Close disconnects the publisher.
func (s *MQTTSink) Close() error { return s.pub.Close() }
