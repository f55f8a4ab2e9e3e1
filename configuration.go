package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/thlib/go-timezone-local/tzlocal"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("timezone", validateTimezone)
}

func validateTimezone(fl validator.FieldLevel) bool {
	timezone := fl.Field().String()
	if timezone == "" {
		return true // Empty timezone is allowed, will be replaced with system default
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

type Config struct {
	// DataDir is scanned for incoming statement files.
	DataDir string `yaml:"dataDir,omitempty"`
	// OutputDir receives the per-category ledger CSV files.
	OutputDir string `yaml:"outputDir,omitempty"`
	// ArchiveDir receives processed statement files.
	ArchiveDir       string `yaml:"archiveDir,omitempty"`
	TimeZoneLocation string `yaml:"timeZoneLocation,omitempty" validate:"omitempty,timezone"`
	// Holdings maps account/portfolio identifiers (IBAN, portfolio number)
	// to Parqet holding references. Keys are matched after stripping '.'
	// and '-' so statements may render the identifier either way.
	Holdings map[string]string `yaml:"holdings,omitempty"`

	location *time.Location
}

func readConfig(filename string) (*Config, error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	decoder := yaml.NewDecoder(strings.NewReader(string(buf)))
	decoder.KnownFields(true) // Disallow unknown fields
	if err = decoder.Decode(cfg); err != nil {
		if err.Error() == "EOF" {
			return nil, fmt.Errorf("can't decode YAML from configuration file '%s': %v", filename, err)
		}
		return nil, err
	}

	// Set default values.
	if cfg.DataDir == "" {
		cfg.DataDir = DEFAULT_DATA_DIR
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DEFAULT_OUTPUT_DIR
	}
	if cfg.ArchiveDir == "" {
		cfg.ArchiveDir = DEFAULT_ARCHIVE_DIR
	}
	if len(cfg.TimeZoneLocation) == 0 {
		tzname, err := tzlocal.RuntimeTZ()
		if err != nil {
			// Fallback to UTC if system timezone cannot be determined
			cfg.TimeZoneLocation = "UTC"
		} else {
			cfg.TimeZoneLocation = tzname
		}
	}

	// Verify timezone is valid
	cfg.location, err = time.LoadLocation(cfg.TimeZoneLocation)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone location '%s': %w", cfg.TimeZoneLocation, err)
	}

	// Normalize holding keys so lookups are format-insensitive.
	holdings := make(map[string]string, len(cfg.Holdings))
	for key, value := range cfg.Holdings {
		holdings[cleanString(key, "")] = value
	}
	cfg.Holdings = holdings

	if err = validate.Struct(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location returns the display timezone for the date/time ledger columns.
func (cfg *Config) Location() *time.Location {
	if cfg.location == nil {
		return time.UTC
	}
	return cfg.location
}

// HoldingFor resolves an account or portfolio identifier to its holding
// reference. Unknown identifiers resolve to a placeholder so the ledger row
// is still written and the gap is visible in the output.
func (cfg *Config) HoldingFor(identifier string) string {
	if holding, ok := cfg.Holdings[cleanString(identifier, "")]; ok && holding != "" {
		return holding
	}
	return UnknownHoldingPlaceholder
}

// writeToFile writes the configuration to a file.
func (cfg *Config) writeToFile(filename string) error {
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, buf, 0644)
}
