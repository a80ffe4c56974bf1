package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/user/feor_plateqc_go/internal/analysis"
)

type Config struct {
	// OutputDir is the parent directory under which each run gets its own folder.
	OutputDir string `split_words:"true" default:"." validate:"required"`

	// RunName names the run folder. When empty a timestamped name is used.
	RunName string `split_words:"true"`

	// LayoutFile is an optional YAML file overriding the default plate layout.
	// Run `plateqc layout` to print the default as a starting point.
	LayoutFile string `split_words:"true"`

	// StrictMarkers rejects exports whose block markers are out of order, not
	// only those whose marker counts differ.
	StrictMarkers bool `split_words:"true" default:"true"`

	WritePDF  bool `envconfig:"WRITE_PDF" default:"true"`
	WriteXLSX bool `envconfig:"WRITE_XLSX" default:"true"`

	LogLevel string `split_words:"true" default:"info" validate:"oneof=trace debug info warn error"`
	// LogFile, when set, receives a copy of the console log.
	LogFile string `split_words:"true"`
}

var validate = validator.New()

// Parse reads the configuration from PLATEQC_* environment variables. A .env
// file in the working directory is loaded first when present.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	var config Config
	if err := envconfig.Process("plateqc", &config); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadLayout returns the default plate layout, overridden by the YAML file at
// path when path is not empty. Fields missing from the file keep their defaults.
func LoadLayout(path string) (analysis.Layout, error) {
	layout := analysis.DefaultLayout()
	if path == "" {
		return layout, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return layout, fmt.Errorf("failed to read layout file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &layout); err != nil {
		return layout, fmt.Errorf("failed to parse layout file %s: %w", path, err)
	}
	if err := ValidateLayout(layout); err != nil {
		return layout, fmt.Errorf("layout file %s: %w", path, err)
	}
	return layout, nil
}

// ValidateLayout checks that the channels do not overlap and that every
// control column lies inside a channel.
func ValidateLayout(layout analysis.Layout) error {
	if err := validate.Struct(layout); err != nil {
		return fmt.Errorf("invalid plate layout: %w", err)
	}
	for _, col := range layout.NegativeControlCols {
		if col >= layout.ChannelAWidth {
			return fmt.Errorf("invalid plate layout: negative control column %d is outside the %d-column channel", col, layout.ChannelAWidth)
		}
	}
	return nil
}

// MarshalLayout renders a layout as YAML.
func MarshalLayout(layout analysis.Layout) ([]byte, error) {
	return yaml.Marshal(layout)
}
