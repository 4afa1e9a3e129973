package forest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// stepData returns rows where y depends only on the first feature:
// 10 below x=10 and 20 from x=10 upward. The second feature is noise.
func stepData() (*mat.Dense, []float64) {
	n := 40
	x := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		v := float64(i % 20)
		x.Set(i, 0, v)
		x.Set(i, 1, float64((i*7)%5))
		if v < 10 {
			y[i] = 10
		} else {
			y[i] = 20
		}
	}
	return x, y
}

func TestFitLearnsStep(t *testing.T) {
	x, y := stepData()
	f, err := Fit(context.Background(), x, y, Params{Trees: 25, Seed: 7})
	require.NoError(t, err)
	require.Len(t, f.Trees, 25)
	assert.Equal(t, 2, f.NFeatures)

	pred, err := f.Predict([][]float64{{1, 3}, {18, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 10, pred[0], 1e-9)
	assert.InDelta(t, 20, pred[1], 1e-9)
}

// noisyData returns a continuous target so bootstrap samples produce
// different trees.
func noisyData() (*mat.Dense, []float64) {
	n := 60
	x := mat.NewDense(n, 3, nil)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a, b, c := float64(i), float64((i*13)%11), float64((i*5)%7)
		x.Set(i, 0, a)
		x.Set(i, 1, b)
		x.Set(i, 2, c)
		y[i] = 3*a + 0.5*b*b - c
	}
	return x, y
}

func TestFitDeterministicAcrossWorkers(t *testing.T) {
	x, y := noisyData()
	a, err := Fit(context.Background(), x, y, Params{Trees: 10, Seed: 42, Workers: 1})
	require.NoError(t, err)
	b, err := Fit(context.Background(), x, y, Params{Trees: 10, Seed: 42, Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, a.Trees, b.Trees)

	c, err := Fit(context.Background(), x, y, Params{Trees: 10, Seed: 43, Workers: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a.Trees, c.Trees)
}

func TestFitDefaults(t *testing.T) {
	x, y := stepData()
	f, err := Fit(context.Background(), x, y, Params{})
	require.NoError(t, err)
	assert.Len(t, f.Trees, 100)
	assert.Equal(t, 2, f.Params.MinSamplesSplit)
	assert.Equal(t, 1, f.Params.MinSamplesLeaf)
	assert.Equal(t, 2, f.Params.MaxFeatures)
}

func TestFitMaxDepth(t *testing.T) {
	x, y := stepData()
	for i := range y {
		y[i] += x.At(i, 1)
	}
	f, err := Fit(context.Background(), x, y, Params{Trees: 5, MaxDepth: 2, Seed: 1})
	require.NoError(t, err)
	for i := range f.Trees {
		assert.LessOrEqual(t, f.Trees[i].Depth(), 2)
	}
}

func TestFitConstantTarget(t *testing.T) {
	x, _ := stepData()
	y := make([]float64, 40)
	for i := range y {
		y[i] = 3.5
	}
	f, err := Fit(context.Background(), x, y, Params{Trees: 3})
	require.NoError(t, err)
	for _, tr := range f.Trees {
		assert.Len(t, tr.Nodes, 1)
		assert.Equal(t, 3.5, tr.Nodes[0].Value)
	}
}

func TestFitErrors(t *testing.T) {
	x, y := stepData()
	_, err := Fit(context.Background(), x, y[:3], Params{})
	assert.True(t, errors.Is(err, ErrDimension))

	_, err = Fit(context.Background(), &mat.Dense{}, nil, Params{})
	assert.True(t, errors.Is(err, ErrNoSamples))

	_, err = Fit(context.Background(), x, y, Params{MinSamplesSplit: 1})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Fit(ctx, x, y, Params{Trees: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictDimensionMismatch(t *testing.T) {
	x, y := stepData()
	f, err := Fit(context.Background(), x, y, Params{Trees: 2})
	require.NoError(t, err)
	_, err = f.Predict([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrDimension)

	pred, err := f.PredictMatrix(x)
	require.NoError(t, err)
	assert.Len(t, pred, 40)
}

func TestTreePredictHandBuilt(t *testing.T) {
	tr := Tree{Nodes: []Node{
		{Feature: 0, Threshold: 2.5, Left: 1, Right: 2},
		{Feature: leaf, Value: 1},
		{Feature: 1, Threshold: 0, Left: 3, Right: 4},
		{Feature: leaf, Value: 2},
		{Feature: leaf, Value: 3},
	}}
	assert.Equal(t, 1.0, tr.Predict([]float64{2.5, 9}))
	assert.Equal(t, 2.0, tr.Predict([]float64{3, -1}))
	assert.Equal(t, 3.0, tr.Predict([]float64{3, 1}))
	assert.Equal(t, 2, tr.Depth())
	assert.NoError(t, tr.validate(2))
	assert.Error(t, tr.validate(1))
}

func TestValidateRejectsCycles(t *testing.T) {
	f := &Forest{NFeatures: 1, Trees: []Tree{{Nodes: []Node{
		{Feature: 0, Threshold: 1, Left: 0, Right: 1},
		{Feature: leaf},
	}}}}
	assert.Error(t, f.Validate())
	assert.Error(t, (&Forest{NFeatures: 1}).Validate())
	assert.Error(t, (&Forest{Trees: []Tree{{}}}).Validate())
}

func TestForestJSONRoundTripPredictsSame(t *testing.T) {
	x, y := stepData()
	f, err := Fit(context.Background(), x, y, Params{Trees: 5, Seed: 3})
	require.NoError(t, err)
	data, err := json.Marshal(f)
	require.NoError(t, err)
	var g Forest
	require.NoError(t, json.Unmarshal(data, &g))
	require.NoError(t, g.Validate())

	a, _ := f.PredictMatrix(x)
	b, _ := g.PredictMatrix(x)
	assert.Equal(t, a, b)
}

func TestScore(t *testing.T) {
	s := Score([]float64{1, 2, 3}, []float64{1, 2, 3})
	assert.Equal(t, 0.0, s.RMSE)
	assert.InDelta(t, 1.0, s.R2, 1e-12)
	assert.Equal(t, 3, s.N)

	s = Score([]float64{2, 2}, []float64{1, 3})
	assert.InDelta(t, 1.0, s.RMSE, 1e-12)

	s = Score([]float64{1, 1}, []float64{5, 5})
	assert.Equal(t, 0.0, s.R2)
	assert.Equal(t, FitStats{}, Score(nil, nil))
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.Error(t, Params{Trees: -1}.Validate())
	assert.Error(t, Params{MaxDepth: -1}.Validate())
	assert.Error(t, Params{MinSamplesLeaf: -1}.Validate())
	assert.Error(t, Params{MaxFeatures: -2}.Validate())
}
