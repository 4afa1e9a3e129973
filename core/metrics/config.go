package metrics

import "github.com/kilianp07/routetime/core/factory"

// Config defines the configured metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
}
