package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/routetime/core/metrics"
)

// PromSink records prediction and training events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	durations   prometheus.Histogram
	trainings   prometheus.Counter
	samples     prometheus.Gauge
	rmse        prometheus.Gauge
	r2          prometheus.Gauge
	trainTime   prometheus.Gauge
}

// NewPromSink registers the metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.predictions, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routetime_predictions_total",
		Help: "Total number of prediction requests by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.latency, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routetime_prediction_latency_seconds",
		Help:    "Time spent handling a prediction request",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.durations, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routetime_predicted_duration_seconds",
		Help:    "Distribution of predicted travel durations",
		Buckets: prometheus.ExponentialBuckets(60, 2, 10),
	})); err != nil {
		return nil, err
	}
	if s.trainings, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routetime_training_runs_total",
		Help: "Total number of completed training runs",
	})); err != nil {
		return nil, err
	}
	if s.samples, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "routetime_training_samples",
		Help: "Number of route records used by the last training run",
	})); err != nil {
		return nil, err
	}
	if s.rmse, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "routetime_training_rmse_seconds",
		Help: "Root mean squared error of the last trained model",
	})); err != nil {
		return nil, err
	}
	if s.r2, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "routetime_training_r2",
		Help: "Coefficient of determination of the last trained model",
	})); err != nil {
		return nil, err
	}
	if s.trainTime, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "routetime_training_duration_seconds",
		Help: "Wall time of the last training run",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// register returns the already registered collector when one with the same
// description exists.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPrediction counts the request and observes its latency.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Outcome).Inc()
	s.latency.WithLabelValues(ev.Outcome).Observe(ev.Latency.Seconds())
	if ev.Outcome == coremetrics.OutcomeOK {
		s.durations.Observe(ev.DurationSec)
	}
	return nil
}

// RecordTraining updates the training gauges.
func (s *PromSink) RecordTraining(ev coremetrics.TrainingEvent) error {
	s.trainings.Inc()
	s.samples.Set(float64(ev.Samples))
	s.rmse.Set(ev.RMSE)
	s.r2.Set(ev.R2)
	s.trainTime.Set(ev.Duration.Seconds())
	return nil
}
