package prediction

import "sync"

// MockEstimator returns a fixed value for every row and records the rows it saw.
type MockEstimator struct {
	Value float64
	Err   error

	mu   sync.Mutex
	rows [][]float64
}

// Predict returns Value for each row, or Err when set.
func (m *MockEstimator) Predict(rows [][]float64) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		cp := make([]float64, len(r))
		copy(cp, r)
		m.rows = append(m.rows, cp)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]float64, len(rows))
	for i := range out {
		out[i] = m.Value
	}
	return out, nil
}

// Rows returns the rows passed to Predict so far.
func (m *MockEstimator) Rows() [][]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]float64(nil), m.rows...)
}

// EstimatorFunc adapts a function to the Estimator interface.
type EstimatorFunc func(rows [][]float64) ([]float64, error)

func (f EstimatorFunc) Predict(rows [][]float64) ([]float64, error) { return f(rows) }
