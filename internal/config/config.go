// Public domain.

// Package config loads, normalizes and validates the run configuration.
//
// Settings come from a TOML file, by default dstar.toml in the working
// directory.  A missing file is not an error; the defaults apply.  Command
// line flags override file values after loading.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultFile is the configuration file looked for when none is named.
const DefaultFile = "dstar.toml"

// Input configures reading of measurement tables.
type Input struct {
	Calibration     string  `toml:"calibration"`
	IncludeComments bool    `toml:"include_comments"`
	MaxLineLength   int     `toml:"max_line_length"`
	KeepNotes       bool    `toml:"keep_notes"`
	EpochSystem     string  `toml:"epoch_system"`
	ObservingHour   float64 `toml:"observing_hour"`
}

// Limits bound the size of a run.
type Limits struct {
	MaxObjects               int `toml:"max_objects"`
	MaxMeasurementsPerObject int `toml:"max_measurements_per_object"`
}

// Quadrant configures position angle ambiguity resolution.
type Quadrant struct {
	ToleranceDeg   float64 `toml:"tolerance_deg"`
	CatalogMinYear float64 `toml:"catalog_min_year"`
}

// Merge configures duplicate merging.
type Merge struct {
	Mode           string  `toml:"mode"`
	EpochTolerance float64 `toml:"epoch_tolerance"`
	Paper2RhoLimit float64 `toml:"paper2_rho_limit"`
}

// Catalog names the external catalogs and matching radii.
type Catalog struct {
	WDSPath                 string  `toml:"wds_path"`
	HIPPath                 string  `toml:"hip_path"`
	WDSURL                  string  `toml:"wds_url"`
	RadiusDesignationArcmin float64 `toml:"radius_designation_arcmin"`
	RadiusPreciseArcmin     float64 `toml:"radius_precise_arcmin"`
}

// Diagnostics sets the thresholds for measurement/catalog disagreement.
type Diagnostics struct {
	RhoDiscrepancy      float64 `toml:"rho_discrepancy"` // fraction of the catalog rho
	ThetaDiscrepancyDeg float64 `toml:"theta_discrepancy_deg"`
}

// Logging configures log output.
type Logging struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Config is the complete run configuration.
type Config struct {
	Input       Input       `toml:"input"`
	Limits      Limits      `toml:"limits"`
	Quadrant    Quadrant    `toml:"quadrant"`
	Merge       Merge       `toml:"merge"`
	Catalog     Catalog     `toml:"catalog"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Logging     Logging     `toml:"logging"`
}

// Load reads path, or DefaultFile when path is empty, over the defaults.
// It returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, "", false, err
	}
	exists := true
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		dec := toml.NewDecoder(file)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}
	if err := cfg.Finish(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Finish normalizes and validates c.  Call it again after applying flag
// overrides.
func (c *Config) Finish() error {
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

// CreateSample writes a commented sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode() (string, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func expandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
