package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coremetrics "github.com/kilianp07/railctl/core/metrics"
	"github.com/kilianp07/railctl/infra/mqtt"
)

// Config is the root configuration of the control service.
type Config struct {
	API     APIConfig          `json:"api"`
	Engine  EngineConfig       `json:"engine"`
	MQTT    mqtt.Config        `json:"mqtt"`
	Metrics coremetrics.Config `json:"metrics"`
}

// APIConfig defines the HTTP surface.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// EngineConfig defines engine-level settings.
type EngineConfig struct {
	// TickSeconds is the live-clock interval at which detection re-runs.
	// Ticks never mutate the snapshot. Zero disables the ticker.
	TickSeconds int `json:"tick_seconds"`
}

// Validate checks engine settings.
func (c EngineConfig) Validate() error {
	if c.TickSeconds < 0 {
		return fmt.Errorf("tick_seconds must not be negative")
	}
	return nil
}

// Load reads the configuration from a JSON or YAML file with optional
// environment overrides (RAILCTL_ prefix, __ as separator).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
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
	if err := k.Load(env.Provider("RAILCTL_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "railctl_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
