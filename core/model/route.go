package model

import (
	"fmt"
	"math"
)

// RouteRecord is one historical route used for training.
type RouteRecord struct {
	DistanceKm        float64 // travelled distance in kilometers
	Hour              float64 // hour of day, 0-23
	DayOfWeek         float64 // opaque day code fixed by the training data
	TrafficCongestion float64 // congestion level at departure
	OSRMTimeEst       float64 // routing engine estimate in seconds
	ActualTime        float64 // observed duration in seconds
}

// Features returns the record's feature vector.
func (r RouteRecord) Features() FeatureVector {
	return NewFeatureVector(r.DistanceKm, r.Hour, r.DayOfWeek, r.TrafficCongestion, r.OSRMTimeEst)
}

// Validate checks that every field is a finite number.
func (r RouteRecord) Validate() error {
	vals := []float64{r.DistanceKm, r.Hour, r.DayOfWeek, r.TrafficCongestion, r.OSRMTimeEst, r.ActualTime}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not finite", RecordColumns[i])
		}
	}
	return nil
}
