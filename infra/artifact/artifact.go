// Package artifact persists fitted models for the prediction service.
//
// An artifact is a zstd compressed JSON document holding the forest, the
// feature names it was trained with and the training fit statistics.
package artifact

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/routetime/core/forest"
	"github.com/kilianp07/routetime/core/model"
)

// FormatVersion identifies the on-disk layout written by Save.
const FormatVersion = 1

// DefaultPath is where the trainer writes and the service reads the model.
const DefaultPath = "models/route_time_predictor.pkl"

var (
	// ErrNotFound is returned when no artifact exists at the path.
	ErrNotFound = errors.New("model artifact not found")
	// ErrIncompatible is returned when an artifact cannot be served by this build.
	ErrIncompatible = errors.New("incompatible model artifact")
)

// Artifact is a fitted model plus the metadata needed to serve it.
type Artifact struct {
	ID         string           `json:"id"`
	Format     int              `json:"format"`
	TrainedAt  time.Time        `json:"trained_at"`
	Features   []string         `json:"features"`
	Samples    int              `json:"samples"`
	Fit        forest.FitStats  `json:"fit"`
	Validation *forest.FitStats `json:"validation,omitempty"`
	Forest     *forest.Forest   `json:"forest"`
}

// New wraps a fitted forest with a fresh id and the current feature contract.
func New(f *forest.Forest, samples int, fit forest.FitStats) *Artifact {
	return &Artifact{
		ID:        uuid.NewString(),
		Format:    FormatVersion,
		TrainedAt: time.Now().UTC(),
		Features:  append([]string(nil), model.FeatureNames...),
		Samples:   samples,
		Fit:       fit,
		Forest:    f,
	}
}

// Predict runs the forest on each row.
func (a *Artifact) Predict(rows [][]float64) ([]float64, error) {
	if a.Forest == nil {
		return nil, fmt.Errorf("artifact %s has no forest", a.ID)
	}
	return a.Forest.Predict(rows)
}

// Check verifies that the artifact matches the compiled feature contract.
func (a *Artifact) Check() error {
	if a.Format != FormatVersion {
		return fmt.Errorf("%w: format %d, want %d", ErrIncompatible, a.Format, FormatVersion)
	}
	if !model.SameFeatures(a.Features) {
		return fmt.Errorf("%w: features %v, want %v", ErrIncompatible, a.Features, model.FeatureNames)
	}
	if a.Forest == nil {
		return fmt.Errorf("%w: missing forest", ErrIncompatible)
	}
	if a.Forest.NFeatures != model.NumFeatures {
		return fmt.Errorf("%w: forest expects %d features, want %d", ErrIncompatible, a.Forest.NFeatures, model.NumFeatures)
	}
	if err := a.Forest.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncompatible, err)
	}
	return nil
}
