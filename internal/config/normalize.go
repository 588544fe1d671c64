// Public domain.

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.Input.EpochSystem = strings.ToLower(strings.TrimSpace(c.Input.EpochSystem))
	if c.Input.EpochSystem == "" {
		c.Input.EpochSystem = defaultEpochSystem
	}
	if c.Input.MaxLineLength == 0 {
		c.Input.MaxLineLength = defaultMaxLineLength
	}
	c.Merge.Mode = strings.ToLower(strings.TrimSpace(c.Merge.Mode))
	if c.Merge.Mode == "" {
		c.Merge.Mode = defaultMergeMode
	}
	if strings.TrimSpace(c.Catalog.WDSURL) == "" {
		c.Catalog.WDSURL = defaultWDSURL
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	for _, p := range []struct {
		name string
		v    *string
	}{
		{"input.calibration", &c.Input.Calibration},
		{"catalog.wds_path", &c.Catalog.WDSPath},
		{"catalog.hip_path", &c.Catalog.HIPPath},
		{"logging.file", &c.Logging.File},
	} {
		s, err := expandPath(strings.TrimSpace(*p.v))
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		*p.v = s
	}
	return nil
}

func (c *Config) normalizeLogging() {
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "":
		level = defaultLogLevel
	case "warning":
		level = "warn"
	}
	c.Logging.Level = level
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
}
