// Package metrics defines the events recorded by the prediction service and
// the trainer, and the sinks that record them. Sinks are built from
// configuration through the module registry; several configured sinks are
// combined into a MultiSink automatically. AsyncSink moves recording onto a
// background goroutine for sinks that talk to the network. Concrete sinks
// (Prometheus, InfluxDB, rotating JSONL, MQTT) live in infra/metrics.
package metrics
