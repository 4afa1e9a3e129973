// Package training fits the travel time forest from historical route records.
package training

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/routetime/core/forest"
	"github.com/kilianp07/routetime/core/logger"
	"github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/core/model"
)

// SuccessMessage is logged once the artifact has been written.
const SuccessMessage = "Model trained and saved successfully."

// ErrNoData is returned when the source yields no records.
var ErrNoData = errors.New("no training records")

// Source yields the records to train on.
type Source interface {
	Load(ctx context.Context) ([]model.RouteRecord, error)
}

// Store persists a training result and reports where it was written.
type Store interface {
	Save(res Result) (string, error)
}

// Config controls a training run.
type Config struct {
	Params forest.Params
	// ValidationFraction holds out this share of records for evaluation.
	// Zero trains on every record.
	ValidationFraction float64
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.ValidationFraction < 0 || c.ValidationFraction >= 1 {
		return fmt.Errorf("validation_fraction must be in [0,1), got %g", c.ValidationFraction)
	}
	return c.Params.Validate()
}

// Result describes a fitted model.
type Result struct {
	ModelID    string
	TrainedAt  time.Time
	Samples    int
	Forest     *forest.Forest
	Fit        forest.FitStats
	Validation *forest.FitStats
	Path       string
}

// Trainer loads records, fits a forest and stores it.
type Trainer struct {
	src     Source
	store   Store
	cfg     Config
	logger  logger.Logger
	metrics metrics.MetricsSink
	now     func() time.Time
}

// NewTrainer wires a trainer. sink may be nil.
func NewTrainer(src Source, store Store, cfg Config, log logger.Logger, sink metrics.MetricsSink) (*Trainer, error) {
	if src == nil || store == nil || log == nil {
		return nil, fmt.Errorf("training: nil parameter provided to NewTrainer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Trainer{src: src, store: store, cfg: cfg, logger: log, metrics: sink, now: time.Now}, nil
}

// Run performs one training run.
func (t *Trainer) Run(ctx context.Context) (Result, error) {
	start := t.now()
	recs, err := t.src.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load route history: %w", err)
	}
	if len(recs) == 0 {
		return Result{}, ErrNoData
	}
	train, holdout := split(recs, t.cfg.ValidationFraction, t.cfg.Params.Seed)
	t.logger.Infof("training on %d records (%d held out)", len(train), len(holdout))

	x, y := Matrix(train)
	f, err := forest.Fit(ctx, x, y, t.cfg.Params)
	if err != nil {
		return Result{}, fmt.Errorf("fit forest: %w", err)
	}
	pred, err := f.PredictMatrix(x)
	if err != nil {
		return Result{}, fmt.Errorf("score forest: %w", err)
	}
	res := Result{
		ModelID:   uuid.NewString(),
		TrainedAt: t.now().UTC(),
		Samples:   len(train),
		Forest:    f,
		Fit:       forest.Score(pred, y),
	}
	if len(holdout) > 0 {
		vx, vy := Matrix(holdout)
		vp, err := f.PredictMatrix(vx)
		if err != nil {
			return Result{}, fmt.Errorf("score holdout: %w", err)
		}
		stats := forest.Score(vp, vy)
		res.Validation = &stats
	}

	path, err := t.store.Save(res)
	if err != nil {
		return Result{}, fmt.Errorf("save model: %w", err)
	}
	res.Path = path

	fields := map[string]any{
		"model_id": res.ModelID,
		"path":     path,
		"samples":  res.Samples,
		"trees":    len(f.Trees),
		"rmse":     res.Fit.RMSE,
		"r2":       res.Fit.R2,
	}
	if res.Validation != nil {
		fields["validation_rmse"] = res.Validation.RMSE
		fields["validation_r2"] = res.Validation.R2
	}
	t.logger.Infow(SuccessMessage, fields)

	if rec, ok := t.metrics.(metrics.TrainingRecorder); ok {
		ev := metrics.TrainingEvent{
			ModelID:  res.ModelID,
			Path:     path,
			Samples:  res.Samples,
			Trees:    len(f.Trees),
			RMSE:     res.Fit.RMSE,
			R2:       res.Fit.R2,
			Duration: t.now().Sub(start),
			Time:     res.TrainedAt,
		}
		if err := rec.RecordTraining(ev); err != nil {
			t.logger.Warnf("record training metrics: %v", err)
		}
	}
	return res, nil
}

// Matrix builds the feature matrix and target vector from records.
func Matrix(recs []model.RouteRecord) (*mat.Dense, []float64) {
	x := mat.NewDense(len(recs), model.NumFeatures, nil)
	y := make([]float64, len(recs))
	for i, r := range recs {
		x.SetRow(i, r.Features().Slice())
		y[i] = r.ActualTime
	}
	return x, y
}

// split shuffles a copy of recs with seed and holds out frac of them. At
// least one record always stays in the training set.
func split(recs []model.RouteRecord, frac float64, seed uint64) (train, holdout []model.RouteRecord) {
	if frac <= 0 || len(recs) < 2 {
		return recs, nil
	}
	n := int(float64(len(recs)) * frac)
	if n == 0 {
		n = 1
	}
	if n >= len(recs) {
		n = len(recs) - 1
	}
	shuffled := append([]model.RouteRecord(nil), recs...)
	rng := rand.New(rand.NewPCG(seed, 0x5eed))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[n:], shuffled[:n]
}
