package app

import (
	"context"
	"fmt"

	"github.com/kilianp07/routetime/config"
	coremetrics "github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/core/training"
	"github.com/kilianp07/routetime/infra/artifact"
	"github.com/kilianp07/routetime/infra/dataset"
	"github.com/kilianp07/routetime/infra/logger"
)

// Train runs one training job: load the configured route history, fit the
// forest and write the artifact to cfg.Model.Path.
func Train(ctx context.Context, cfg *config.Config, log logger.Logger) (training.Result, error) {
	src, err := dataset.Open(cfg.Training.Data, cfg.Training.Table)
	if err != nil {
		return training.Result{}, err
	}
	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return training.Result{}, fmt.Errorf("metrics sink: %w", err)
	}
	defer func() {
		if err := coremetrics.Close(sink); err != nil {
			log.Warnf("close metrics sink: %v", err)
		}
	}()

	tr, err := training.NewTrainer(src, artifact.FileStore{Path: cfg.Model.Path}, cfg.Training.Trainer(), log, sink)
	if err != nil {
		return training.Result{}, err
	}
	return tr.Run(ctx)
}
