package config

import (
	"fmt"

	"github.com/kilianp07/routetime/core/forest"
	"github.com/kilianp07/routetime/core/training"
	"github.com/kilianp07/routetime/infra/dataset"
)

// TrainingConfig selects the route history source and forest parameters.
type TrainingConfig struct {
	// Data is a CSV path, sqlite:// URI or postgres:// DSN.
	Data string `json:"data"`
	// Table is queried by SQL sources.
	Table              string  `json:"table"`
	Trees              int     `json:"trees"`
	MaxDepth           int     `json:"max_depth"`
	MinSamplesSplit    int     `json:"min_samples_split"`
	MinSamplesLeaf     int     `json:"min_samples_leaf"`
	MaxFeatures        int     `json:"max_features"`
	Seed               uint64  `json:"seed"`
	Workers            int     `json:"workers"`
	ValidationFraction float64 `json:"validation_fraction"`
}

func (c *TrainingConfig) SetDefaults() {
	d := forest.DefaultParams()
	if c.Data == "" {
		c.Data = dataset.DefaultPath
	}
	if c.Table == "" {
		c.Table = dataset.DefaultTable
	}
	if c.Trees <= 0 {
		c.Trees = d.Trees
	}
	if c.MinSamplesSplit == 0 {
		c.MinSamplesSplit = d.MinSamplesSplit
	}
	if c.MinSamplesLeaf == 0 {
		c.MinSamplesLeaf = d.MinSamplesLeaf
	}
}

func (c TrainingConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return c.Trainer().Validate()
}

// Params returns the forest parameters.
func (c TrainingConfig) Params() forest.Params {
	return forest.Params{
		Trees:           c.Trees,
		MaxDepth:        c.MaxDepth,
		MinSamplesSplit: c.MinSamplesSplit,
		MinSamplesLeaf:  c.MinSamplesLeaf,
		MaxFeatures:     c.MaxFeatures,
		Seed:            c.Seed,
		Workers:         c.Workers,
	}
}

// Trainer returns the trainer configuration.
func (c TrainingConfig) Trainer() training.Config {
	return training.Config{Params: c.Params(), ValidationFraction: c.ValidationFraction}
}
