package simulation

import (
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-photon-transport/pkg/photon"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation error
var ErrInvalidConfig = errors.New("invalid simulation config")

// Config contains everything needed to run a batch of photons
type Config struct {
	Workers            int           `yaml:"workers"`            // Parallel workers (0 = use CPU count)
	PhotonsPerWorkItem int           `yaml:"photonsPerWorkItem"` // Photons sharing one random stream
	MaxInteractions    int           `yaml:"maxInteractions"`    // Log entries reserved per photon
	Seed               uint32        `yaml:"seed"`               // Master seed (0 = random seeds)
	Photon             photon.Config `yaml:"photon"`
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Workers:            0,
		PhotonsPerWorkItem: 256,
		MaxInteractions:    1024,
		Seed:               0,
		Photon:             photon.DefaultConfig(),
	}
}

// Validate checks the configuration
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	case c.PhotonsPerWorkItem <= 0:
		return fmt.Errorf("%w: photons per work item must be positive, got %d", ErrInvalidConfig, c.PhotonsPerWorkItem)
	case c.MaxInteractions <= 0:
		return fmt.Errorf("%w: max interactions must be positive, got %d", ErrInvalidConfig, c.MaxInteractions)
	}
	if err := c.Photon.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML file on top of the defaults. Keys missing from the
// file keep their default value.
func LoadConfig(filePath string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("error reading config: %v", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("error parsing config %s: %v", filePath, err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// SaveConfig writes the configuration as YAML
func SaveConfig(config Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}
	return nil
}
