package prediction

import (
	"math"

	"github.com/kilianp07/routetime/core/model"
)

// Input is a prediction request. Nil fields were not supplied.
type Input struct {
	DistanceKm        *float64 `json:"distance_km"`
	TrafficCongestion *float64 `json:"traffic_congestion"`
	Hour              *float64 `json:"hour"`
	DayOfWeek         *float64 `json:"day_of_week,omitempty"`
	OSRMTimeEst       *float64 `json:"osrm_time_est,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Validate checks required fields and value ranges. day_of_week is an opaque
// code and is only required to be finite.
func (in Input) Validate() error {
	required := []struct {
		name string
		v    *float64
	}{
		{model.FeatureDistanceKm, in.DistanceKm},
		{model.FeatureTrafficCongestion, in.TrafficCongestion},
		{model.FeatureHour, in.Hour},
	}
	for _, f := range required {
		if f.v == nil {
			return &InputError{Field: f.name, Reason: "is required"}
		}
		if !finite(*f.v) {
			return &InputError{Field: f.name, Reason: "must be a finite number"}
		}
	}
	if *in.DistanceKm < 0 {
		return &InputError{Field: model.FeatureDistanceKm, Reason: "must not be negative"}
	}
	if h := *in.Hour; h < 0 || h > 23 || h != math.Trunc(h) {
		return &InputError{Field: model.FeatureHour, Reason: "must be an integer between 0 and 23"}
	}
	if in.DayOfWeek != nil && !finite(*in.DayOfWeek) {
		return &InputError{Field: model.FeatureDayOfWeek, Reason: "must be a finite number"}
	}
	if in.OSRMTimeEst != nil && !finite(*in.OSRMTimeEst) {
		return &InputError{Field: model.FeatureOSRMTimeEst, Reason: "must be a finite number"}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Defaults fills the optional request fields.
type Defaults struct {
	// DayOfWeek is used when day_of_week is omitted. The value is the code the
	// training data uses for Monday.
	DayOfWeek float64
	// SecondsPerKm estimates osrm_time_est from distance when it is omitted.
	SecondsPerKm float64
}

// DefaultPolicy assumes Monday is encoded as 1 and a pace of one kilometer per minute.
var DefaultPolicy = Defaults{DayOfWeek: 1, SecondsPerKm: 60}

// Resolve validates in and returns the feature vector with defaults applied.
func (d Defaults) Resolve(in Input) (model.FeatureVector, error) {
	if err := in.Validate(); err != nil {
		return model.FeatureVector{}, err
	}
	day := d.DayOfWeek
	if in.DayOfWeek != nil {
		day = *in.DayOfWeek
	}
	osrm := *in.DistanceKm * d.SecondsPerKm
	if in.OSRMTimeEst != nil {
		osrm = *in.OSRMTimeEst
	}
	return model.NewFeatureVector(*in.DistanceKm, *in.Hour, day, *in.TrafficCongestion, osrm), nil
}
