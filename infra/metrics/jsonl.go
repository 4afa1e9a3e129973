package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
)

// JSONLRecord is one line of the audit log.
type JSONLRecord struct {
	Kind       string                       `json:"kind"`
	Prediction *coremetrics.PredictionEvent `json:"prediction,omitempty"`
	Training   *coremetrics.TrainingEvent   `json:"training,omitempty"`
}

// JSONLSink appends events to a JSONL file with automatic rotation.
type JSONLSink struct {
	mu     sync.Mutex
	logger *lumberjack.Logger
	enc    *json.Encoder
}

// NewJSONLSink creates a sink with rotation options in megabytes and days.
func NewJSONLSink(path string, maxSizeMB, maxBackups, maxAgeDays int) (*JSONLSink, error) {
	if path == "" {
		return nil, fmt.Errorf("jsonl sink: path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	return &JSONLSink{logger: lj, enc: json.NewEncoder(lj)}, nil
}

func (s *JSONLSink) append(rec JSONLRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(rec)
}

// RecordPrediction appends a prediction line.
func (s *JSONLSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	return s.append(JSONLRecord{Kind: "prediction", Prediction: &ev})
}

// RecordTraining appends a training line.
func (s *JSONLSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	return s.append(JSONLRecord{Kind: "training", Training: &ev})
}

// Close closes the current log file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger.Close()
}
