package model

import "slices"

// Feature column names in model order. Training and serving both build
// vectors through NewFeatureVector so the order cannot drift.
const (
	FeatureDistanceKm        = "distance_km"
	FeatureHour              = "hour"
	FeatureDayOfWeek         = "day_of_week"
	FeatureTrafficCongestion = "traffic_congestion"
	FeatureOSRMTimeEst       = "osrm_time_est"

	// TargetActualTime is the training target column.
	TargetActualTime = "actual_time"
)

// NumFeatures is the length of a FeatureVector.
const NumFeatures = 5

// FeatureNames lists the feature columns in vector order.
var FeatureNames = []string{
	FeatureDistanceKm,
	FeatureHour,
	FeatureDayOfWeek,
	FeatureTrafficCongestion,
	FeatureOSRMTimeEst,
}

// RecordColumns lists every column a training source must provide.
var RecordColumns = append(slices.Clone(FeatureNames), TargetActualTime)

// FeatureVector is the ordered model input.
type FeatureVector [NumFeatures]float64

// NewFeatureVector assembles a vector in model order.
func NewFeatureVector(distanceKm, hour, dayOfWeek, congestion, osrmTimeEst float64) FeatureVector {
	return FeatureVector{distanceKm, hour, dayOfWeek, congestion, osrmTimeEst}
}

// Slice returns a copy of the vector as a slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

// Map returns the vector keyed by feature name.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		m[name] = v[i]
	}
	return m
}

// SameFeatures reports whether names matches FeatureNames exactly.
func SameFeatures(names []string) bool {
	return slices.Equal(names, FeatureNames)
}
