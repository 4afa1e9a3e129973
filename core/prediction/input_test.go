package prediction

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/routetime/core/model"
)

func fullInput() Input {
	return Input{
		DistanceKm:        Float(5),
		TrafficCongestion: Float(3),
		Hour:              Float(14),
		DayOfWeek:         Float(3),
		OSRMTimeEst:       Float(500),
	}
}

func TestResolveOrder(t *testing.T) {
	vec, err := DefaultPolicy.Resolve(fullInput())
	require.NoError(t, err)
	assert.Equal(t, model.FeatureVector{5, 14, 3, 3, 500}, vec)
}

func TestResolveDefaultDayOfWeek(t *testing.T) {
	in := fullInput()
	in.DayOfWeek = nil
	omitted, err := DefaultPolicy.Resolve(in)
	require.NoError(t, err)

	in.DayOfWeek = Float(1)
	explicit, err := DefaultPolicy.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, explicit, omitted)
}

func TestResolveDefaultOSRM(t *testing.T) {
	in := fullInput()
	in.DistanceKm = Float(7.5)
	in.OSRMTimeEst = nil
	omitted, err := DefaultPolicy.Resolve(in)
	require.NoError(t, err)

	in.OSRMTimeEst = Float(7.5 * 60)
	explicit, err := DefaultPolicy.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, explicit, omitted)
	assert.Equal(t, 450.0, omitted[4])
}

func TestResolveCustomPolicy(t *testing.T) {
	in := Input{DistanceKm: Float(2), TrafficCongestion: Float(1), Hour: Float(0)}
	vec, err := Defaults{DayOfWeek: 0, SecondsPerKm: 90}.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, model.FeatureVector{2, 0, 0, 1, 180}, vec)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		mod   func(*Input)
		field string
	}{
		{"missing distance", func(in *Input) { in.DistanceKm = nil }, "distance_km"},
		{"missing congestion", func(in *Input) { in.TrafficCongestion = nil }, "traffic_congestion"},
		{"missing hour", func(in *Input) { in.Hour = nil }, "hour"},
		{"nan distance", func(in *Input) { in.DistanceKm = Float(math.NaN()) }, "distance_km"},
		{"negative distance", func(in *Input) { in.DistanceKm = Float(-1) }, "distance_km"},
		{"hour too large", func(in *Input) { in.Hour = Float(24) }, "hour"},
		{"hour fractional", func(in *Input) { in.Hour = Float(3.5) }, "hour"},
		{"inf day", func(in *Input) { in.DayOfWeek = Float(math.Inf(1)) }, "day_of_week"},
		{"inf osrm", func(in *Input) { in.OSRMTimeEst = Float(math.Inf(-1)) }, "osrm_time_est"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := fullInput()
			c.mod(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var ie *InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, c.field, ie.Field)
			assert.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
	assert.NoError(t, fullInput().Validate())
}

func TestValidateDayOfWeekIsOpaque(t *testing.T) {
	in := fullInput()
	in.DayOfWeek = Float(0)
	assert.NoError(t, in.Validate())
	in.DayOfWeek = Float(42)
	assert.NoError(t, in.Validate())
}

func TestInputErrorMessage(t *testing.T) {
	assert.Equal(t, "invalid input: hour is required", (&InputError{Field: "hour", Reason: "is required"}).Error())
	assert.Equal(t, "invalid input: body is empty", (&InputError{Reason: "body is empty"}).Error())
}
