// Package config loads CLI configuration from the environment and an
// optional .env file. Flags override anything loaded here.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the CLI settings.
type Config struct {
	// BasePath is the FHIR endpoint mount prefix.
	BasePath string `mapstructure:"FHIRQUERY_BASE_PATH"`

	// Metadata is the path to a CapabilityStatement JSON file.
	Metadata string `mapstructure:"FHIRQUERY_METADATA"`

	// Output is "text" or "json".
	Output string `mapstructure:"FHIRQUERY_OUTPUT"`

	// SuggestLimit caps completion lists.
	SuggestLimit int `mapstructure:"FHIRQUERY_SUGGEST_LIMIT"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"FHIRQUERY_VERBOSE"`
}

// Load reads configuration from the environment, with a .env file as an
// optional source. Missing files are not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("FHIRQUERY_BASE_PATH", "/fhir")
	v.SetDefault("FHIRQUERY_OUTPUT", "text")
	v.SetDefault("FHIRQUERY_SUGGEST_LIMIT", 20)

	v.BindEnv("FHIRQUERY_BASE_PATH")
	v.BindEnv("FHIRQUERY_METADATA")
	v.BindEnv("FHIRQUERY_OUTPUT")
	v.BindEnv("FHIRQUERY_SUGGEST_LIMIT")
	v.BindEnv("FHIRQUERY_VERBOSE")

	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
