package forest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrNoSamples is returned when fitting on an empty matrix.
	ErrNoSamples = errors.New("no training samples")
	// ErrDimension is returned when a row does not match the fitted feature count.
	ErrDimension = errors.New("feature dimension mismatch")
)

// Forest is a fitted random forest regressor.
type Forest struct {
	Params    Params `json:"params"`
	NFeatures int    `json:"n_features"`
	Trees     []Tree `json:"trees"`
}

// Fit grows a forest on the rows of x with targets y. Trees are grown
// concurrently; the result only depends on the data and p.Seed.
func Fit(ctx context.Context, x mat.Matrix, y []float64, p Params) (*Forest, error) {
	n, d := x.Dims()
	if n == 0 || d == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, fmt.Errorf("%w: %d rows but %d targets", ErrDimension, n, len(y))
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	p = p.withDefaults(d)

	cols := make([][]float64, d)
	for j := range cols {
		cols[j] = mat.Col(nil, j, x)
	}

	trees := make([]Tree, p.Trees)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Workers)
	for i := range trees {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(p.Seed, uint64(i)))
			trees[i] = growTree(cols, y, bootstrap(rng, n), p, rng)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Forest{Params: p, NFeatures: d, Trees: trees}, nil
}

func bootstrap(rng *rand.Rand, n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = rng.IntN(n)
	}
	return idx
}

// Predict returns one prediction per row.
func (f *Forest) Predict(rows [][]float64) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, r := range rows {
		if len(r) != f.NFeatures {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrDimension, i, len(r), f.NFeatures)
		}
		var sum float64
		for t := range f.Trees {
			sum += f.Trees[t].Predict(r)
		}
		out[i] = sum / float64(len(f.Trees))
	}
	return out, nil
}

// PredictMatrix predicts every row of x.
func (f *Forest) PredictMatrix(x mat.Matrix) ([]float64, error) {
	n, _ := x.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, x)
	}
	return f.Predict(rows)
}

// Validate checks the structure of a decoded forest.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return fmt.Errorf("forest has %d features", f.NFeatures)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// FitStats summarises how well predictions match observed values.
type FitStats struct {
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
	N    int     `json:"n"`
}

// Score compares predictions against actual values. R2 is reported as 0 when
// the actual values have no variance.
func Score(pred, actual []float64) FitStats {
	n := len(actual)
	if n == 0 || len(pred) != n {
		return FitStats{}
	}
	rmse := floats.Distance(pred, actual, 2) / math.Sqrt(float64(n))
	r2 := stat.RSquaredFrom(pred, actual, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	return FitStats{RMSE: rmse, R2: r2, N: n}
}
