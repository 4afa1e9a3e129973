package metrics

import (
	"github.com/kilianp07/routetime/core/factory"
	coremetrics "github.com/kilianp07/routetime/core/metrics"
	"github.com/kilianp07/routetime/infra/logger"
	"github.com/kilianp07/routetime/infra/mqtt"
)

type queueConfig struct {
	QueueSize int `json:"queue_size"`
}

// init registers built-in metrics sinks. The influx and mqtt sinks talk to
// the network, so they record through an AsyncSink.
func init() {
	coremetrics.MustRegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})

	coremetrics.MustRegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSink()
	})

	coremetrics.MustRegisterMetricsSink("influx", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			URL       string `json:"url"`
			Token     string `json:"token"`
			Org       string `json:"org"`
			Bucket    string `json:"bucket"`
			QueueSize int    `json:"queue_size"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		sink := NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket)
		if _, ok := sink.(coremetrics.NopSink); ok {
			return sink, nil
		}
		return coremetrics.NewAsyncSink(sink, c.QueueSize, logger.New("influx-sink")), nil
	})

	coremetrics.MustRegisterMetricsSink("jsonl", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "logs/predictions.jsonl"
		}
		return NewJSONLSink(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})

	coremetrics.MustRegisterMetricsSink("mqtt", func(conf map[string]any) (coremetrics.MetricsSink, error) {
		var c mqtt.Config
		var q queueConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if err := factory.Decode(conf, &q); err != nil {
			return nil, err
		}
		pub, err := mqtt.NewPublisher(c)
		if err != nil {
			return nil, err
		}
		return coremetrics.NewAsyncSink(NewMQTTSink(pub), q.QueueSize, logger.New("mqtt-sink")), nil
	})
}
