package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Planner PlannerConfig `yaml:"planner"`
	Run     RunConfig     `yaml:"run"`
	Output  OutputConfig  `yaml:"output"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// PlannerConfig holds search settings
type PlannerConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// RunConfig holds per-run termination defaults
type RunConfig struct {
	MaxActions int     `yaml:"max_actions"` // 0 disables the policy
	CostBudget float64 `yaml:"cost_budget"` // 0 disables the policy
}

// OutputConfig holds run journal settings
type OutputConfig struct {
	Directory       string `yaml:"directory"`
	PreserveHistory bool   `yaml:"preserve_history"`
}

// MetricsConfig holds metric push settings
type MetricsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	PushgatewayURL string `yaml:"pushgateway_url"`
	InfluxURL      string `yaml:"influx_url"`
	InfluxToken    string `yaml:"influx_token"` // supports ${ENV_VAR} interpolation
	InfluxOrg      string `yaml:"influx_org"`
	InfluxBucket   string `yaml:"influx_bucket"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Planner: PlannerConfig{
			MaxIterations: 10000,
		},
		Run: RunConfig{
			MaxActions: 100,
			CostBudget: 0,
		},
		Output: OutputConfig{
			Directory:       "./output",
			PreserveHistory: true,
		},
		Metrics: MetricsConfig{
			Enabled:        false,
			PushgatewayURL: "http://localhost:9091",
			InfluxURL:      "http://localhost:8086",
			InfluxOrg:      "udr",
			InfluxBucket:   "bucket1",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ExampleConfig returns a commented example config
func ExampleConfig() string {
	return `# Stratagem Configuration File
# Priority: CLI flags > environment variables > config file > defaults

planner:
  # Frontier expansion budget before the search reports "no plan"
  max_iterations: 10000

run:
  # Terminate a run after this many executed actions (0 = no limit)
  max_actions: 100

  # Terminate a run once summed action cost exceeds this (0 = no limit)
  cost_budget: 0

output:
  # Directory for run journals
  directory: ./output

  # Keep journals of finished runs
  preserve_history: true

metrics:
  # Push planning/run metrics
  enabled: false

  # Prometheus pushgateway address
  pushgateway_url: http://localhost:9091

  # InfluxDB settings for per-run records
  influx_url: http://localhost:8086
  influx_token: ${INFLUX_TOKEN}
  influx_org: udr
  influx_bucket: bucket1
`
}
