// Package config loads the routetime configuration from an optional YAML or
// JSON file plus RT_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/routetime/core/factory"
	"github.com/kilianp07/routetime/core/metrics"
)

// EnvPrefix marks environment overrides. RT_TRAINING__TREES=50 sets
// training.trees.
const EnvPrefix = "RT_"

type Config struct {
	Server   ServerConfig   `json:"server"`
	Model    ModelConfig    `json:"model"`
	Training TrainingConfig `json:"training"`
	Metrics  metrics.Config `json:"metrics"`
	Smoke    SmokeConfig    `json:"smoke"`
	Log      LogConfig      `json:"log"`
}

// Load reads path, applies environment overrides and defaults, then
// validates. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file or overrides exist.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	c.Server.SetDefaults()
	c.Model.SetDefaults()
	c.Training.SetDefaults()
	c.Smoke.SetDefaults()
	c.Log.SetDefaults()
	if len(c.Metrics.Sinks) == 0 {
		c.Metrics.Sinks = []factory.ModuleConfig{{Type: "prometheus"}}
	}
}

// Validate checks every section and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	add := func(section string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", section, err))
		}
	}
	add("server", c.Server.Validate())
	add("model", c.Model.Validate())
	add("training", c.Training.Validate())
	add("smoke", c.Smoke.Validate())
	add("log", c.Log.Validate())
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			add("metrics", fmt.Errorf("sink %d has no type", i))
		}
	}
	return errors.Join(errs...)
}
