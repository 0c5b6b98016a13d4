// Package config loads the sky-view service configuration.
//
// Configuration comes from three layers, each overriding the previous:
//  1. Built-in defaults (DefaultConfig)
//  2. An optional YAML file (skyview.yaml)
//  3. Environment variables (WEATHER_API_KEY, SKYVIEW_PORT)
//
// The API key deliberately has no default and no place in the YAML file
// tracked by version control; it is expected to arrive via the environment,
// the same way the containerized deployment injects it.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/data-tamer2410/sky-view/internal/model"
)

// Default values for the service configuration.
const (
	// DefaultListenPort is the dashboard port. 8501 is the fixed port the
	// packaged image exposes, so the in-process default matches it.
	DefaultListenPort = 8501

	// DefaultWeatherBaseURL is the weather API root. Endpoints
	// (current.json, history.json) are appended by the client.
	DefaultWeatherBaseURL = "http://api.weatherapi.com/v1"

	// DefaultPredictorURL is the prediction API endpoint. The model takes
	// seven days of features and returns the next day's forecast.
	DefaultPredictorURL = "https://rnn-weather-forecast-api.onrender.com/predict/"

	// DefaultLocationsPath is the newline-delimited catalog of Australian
	// locations offered by the dashboard's select box.
	DefaultLocationsPath = "locations.txt"

	// DefaultManifestPath is the JSONC deploy manifest consumed by the
	// "deploy" commands.
	DefaultManifestPath = "deploy.jsonc"
)

// Config holds all the settings the service needs to run.
type Config struct {
	// ListenPort is the TCP port the dashboard server binds to.
	ListenPort int `yaml:"listenPort"`

	// WeatherBaseURL is the base URL of the weather API.
	WeatherBaseURL string `yaml:"weatherBaseUrl"`

	// WeatherAPIKey authenticates requests to the weather API.
	// Usually supplied via the WEATHER_API_KEY environment variable.
	WeatherAPIKey string `yaml:"weatherApiKey"`

	// PredictorURL is the full URL of the prediction endpoint.
	PredictorURL string `yaml:"predictorUrl"`

	// LocationsPath is the path to the location catalog file.
	LocationsPath string `yaml:"locationsPath"`

	// CachePath is the sqlite file used to cache immutable past-day
	// history payloads. Empty disables the cache.
	CachePath string `yaml:"cachePath"`

	// ManifestPath is the path to the JSONC deploy manifest.
	ManifestPath string `yaml:"manifestPath"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenPort:     DefaultListenPort,
		WeatherBaseURL: DefaultWeatherBaseURL,
		PredictorURL:   DefaultPredictorURL,
		LocationsPath:  DefaultLocationsPath,
		ManifestPath:   DefaultManifestPath,
	}
}

// Load reads the configuration file at path (if it exists), applies
// environment overrides, and validates the result.
//
// A missing file is not an error — defaults plus environment variables
// are a complete configuration. A present-but-malformed file is an error,
// because silently ignoring it would mask operator mistakes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides with defaults intact.
		case err != nil:
			return nil, model.WrapCLIError(model.ExitConfigError,
				fmt.Sprintf("failed to read config file %q", path), err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, model.WrapCLIError(model.ExitConfigError,
					fmt.Sprintf("failed to parse config file %q", path), err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of file values.
// Environment wins over the file so containerized deployments can adjust
// settings without rebuilding the image.
func applyEnvOverrides(cfg *Config) {
	if key := os.Getenv("WEATHER_API_KEY"); key != "" {
		cfg.WeatherAPIKey = key
	}
	if portStr := os.Getenv("SKYVIEW_PORT"); portStr != "" {
		// An unparseable SKYVIEW_PORT is left for Validate to reject via
		// the zero value rather than silently keeping the file value.
		port, err := strconv.Atoi(portStr)
		if err == nil {
			cfg.ListenPort = port
		} else {
			cfg.ListenPort = 0
		}
	}
}

// Validate checks the configuration for values that would make the
// service unable to start. It returns a CLIError with ExitConfigError
// so the CLI maps validation failures to the config exit code.
func (c *Config) Validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return model.NewCLIError(model.ExitConfigError,
			fmt.Sprintf("listen port %d out of range (1-65535)", c.ListenPort))
	}
	if c.WeatherBaseURL == "" {
		return model.NewCLIError(model.ExitConfigError, "weather API base URL must not be empty")
	}
	if c.PredictorURL == "" {
		return model.NewCLIError(model.ExitConfigError, "predictor URL must not be empty")
	}
	if c.LocationsPath == "" {
		return model.NewCLIError(model.ExitConfigError, "locations path must not be empty")
	}
	return nil
}
