// Package config loads assessment settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	gtfs "github.com/datasciencecampus/assess-gtfs"
)

// Config holds the tunable parts of feed validation.
type Config struct {
	FastTravel FastTravel `yaml:"fast_travel"`

	// DuplicateStopPrecision is the number of decimal places coordinates
	// are rounded to when looking for duplicate stops. Five decimal places
	// is roughly one metre.
	DuplicateStopPrecision int `yaml:"duplicate_stop_precision" validate:"gte=0,lte=10"`

	// ExpiryHorizonDays warns about feeds that expire within this many
	// days. Zero warns only about feeds already expired.
	ExpiryHorizonDays int `yaml:"expiry_horizon_days" validate:"gte=0"`
}

// FastTravel configures the implied-speed checks.
type FastTravel struct {
	// MaxSpeedKPH maps GTFS route_type codes to speed limits in km/h.
	// Omitted route types fall back to the built-in defaults.
	MaxSpeedKPH map[int]float64 `yaml:"max_speed_kph" validate:"dive,gt=0"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		DuplicateStopPrecision: 5,
	}
}

// Load reads and validates a YAML configuration file. Settings absent from
// the file keep their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return c, nil
}

// ValidateOptions converts the configuration into the options the
// validator consumes. Configured speed limits override the built-in
// defaults per route type.
func (c *Config) ValidateOptions() gtfs.ValidateOptions {
	speeds := gtfs.DefaultMaxSpeedKPH()
	for code, limit := range c.FastTravel.MaxSpeedKPH {
		speeds[gtfs.RouteType(code)] = limit
	}
	return gtfs.ValidateOptions{
		MaxSpeedKPH:            speeds,
		DuplicateStopPrecision: c.DuplicateStopPrecision,
		ExpiryHorizon:          time.Duration(c.ExpiryHorizonDays) * 24 * time.Hour,
	}
}
