package forest

import (
	"fmt"
	"runtime"
)

// Params controls how a forest is grown.
type Params struct {
	// Trees is the number of trees in the ensemble.
	Trees int `json:"trees"`
	// MaxDepth bounds tree depth. Zero means unlimited.
	MaxDepth int `json:"max_depth"`
	// MinSamplesSplit is the minimum number of samples required to split a node.
	MinSamplesSplit int `json:"min_samples_split"`
	// MinSamplesLeaf is the minimum number of samples on each side of a split.
	MinSamplesLeaf int `json:"min_samples_leaf"`
	// MaxFeatures is the number of features tried at each split. Zero means all.
	MaxFeatures int `json:"max_features"`
	// Seed makes bootstrap sampling and feature sampling reproducible.
	Seed uint64 `json:"seed"`
	// Workers bounds the number of trees grown concurrently. Zero means NumCPU.
	Workers int `json:"-"`
}

// DefaultParams mirrors the usual random forest regressor defaults with 100 trees.
func DefaultParams() Params {
	return Params{Trees: 100, MinSamplesSplit: 2, MinSamplesLeaf: 1}
}

func (p Params) withDefaults(nFeatures int) Params {
	if p.Trees == 0 {
		p.Trees = 100
	}
	if p.MinSamplesSplit == 0 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf == 0 {
		p.MinSamplesLeaf = 1
	}
	if p.MaxFeatures == 0 || p.MaxFeatures > nFeatures {
		p.MaxFeatures = nFeatures
	}
	if p.Workers <= 0 {
		p.Workers = runtime.NumCPU()
	}
	return p
}

// Validate rejects negative or inconsistent settings.
func (p Params) Validate() error {
	switch {
	case p.Trees < 0:
		return fmt.Errorf("trees must be positive, got %d", p.Trees)
	case p.MaxDepth < 0:
		return fmt.Errorf("max_depth must not be negative, got %d", p.MaxDepth)
	case p.MinSamplesSplit < 0 || p.MinSamplesSplit == 1:
		return fmt.Errorf("min_samples_split must be at least 2, got %d", p.MinSamplesSplit)
	case p.MinSamplesLeaf < 0:
		return fmt.Errorf("min_samples_leaf must not be negative, got %d", p.MinSamplesLeaf)
	case p.MaxFeatures < 0:
		return fmt.Errorf("max_features must not be negative, got %d", p.MaxFeatures)
	}
	return nil
}
