package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/kilianp07/routetime/core/model"
)

// Estimator is a fitted regression model: N feature rows in, N values out.
type Estimator interface {
	Predict(rows [][]float64) ([]float64, error)
}

// Result is a single duration estimate.
type Result struct {
	Features    model.FeatureVector
	DurationSec float64
}

// Engine predicts travel durations with an injected estimator.
type Engine struct {
	est      Estimator
	defaults Defaults
}

// NewEngine returns an Engine using est and the defaults policy d.
func NewEngine(est Estimator, d Defaults) *Engine {
	return &Engine{est: est, defaults: d}
}

// Predict validates in, assembles the feature vector and runs inference. The
// duration is rounded to two decimals.
func (e *Engine) Predict(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	vec, err := e.defaults.Resolve(in)
	if err != nil {
		return Result{}, err
	}
	out, err := e.est.Predict([][]float64{vec.Slice()})
	if err != nil {
		return Result{Features: vec}, fmt.Errorf("%w: %w", ErrInference, err)
	}
	if len(out) != 1 {
		return Result{Features: vec}, fmt.Errorf("%w: expected 1 prediction, got %d", ErrInference, len(out))
	}
	if !finite(out[0]) {
		return Result{Features: vec}, fmt.Errorf("%w: non-finite prediction", ErrInference)
	}
	return Result{Features: vec, DurationSec: Round2(out[0])}, nil
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
