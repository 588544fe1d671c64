// Public domain.

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateInput(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateQuadrant(); err != nil {
		return err
	}
	if err := c.validateMerge(); err != nil {
		return err
	}
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateDiagnostics(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateInput() error {
	switch c.Input.EpochSystem {
	case "besselian", "julian":
	default:
		return fmt.Errorf("input.epoch_system must be besselian or julian, got %q", c.Input.EpochSystem)
	}
	if c.Input.ObservingHour < 0 || c.Input.ObservingHour >= 24 {
		return errors.New("input.observing_hour must be in [0,24)")
	}
	if c.Input.MaxLineLength < 16 {
		return errors.New("input.max_line_length must be at least 16")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.MaxObjects <= 0 {
		return errors.New("limits.max_objects must be positive")
	}
	if c.Limits.MaxMeasurementsPerObject <= 0 {
		return errors.New("limits.max_measurements_per_object must be positive")
	}
	return nil
}

func (c *Config) validateQuadrant() error {
	if c.Quadrant.ToleranceDeg < 0 || c.Quadrant.ToleranceDeg >= 45 {
		return errors.New("quadrant.tolerance_deg must be in [0,45)")
	}
	return nil
}

func (c *Config) validateMerge() error {
	switch c.Merge.Mode {
	case "none", "full", "paper2":
	default:
		return fmt.Errorf("merge.mode must be none, full or paper2, got %q", c.Merge.Mode)
	}
	if c.Merge.EpochTolerance < 0 {
		return errors.New("merge.epoch_tolerance must not be negative")
	}
	if c.Merge.Paper2RhoLimit <= 0 {
		return errors.New("merge.paper2_rho_limit must be positive")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RadiusDesignationArcmin <= 0 || c.Catalog.RadiusPreciseArcmin <= 0 {
		return errors.New("catalog radii must be positive")
	}
	if c.Catalog.RadiusPreciseArcmin > c.Catalog.RadiusDesignationArcmin {
		return errors.New("catalog.radius_precise_arcmin must not exceed radius_designation_arcmin")
	}
	return nil
}

func (c *Config) validateDiagnostics() error {
	if c.Diagnostics.RhoDiscrepancy <= 0 {
		return errors.New("diagnostics.rho_discrepancy must be positive")
	}
	if c.Diagnostics.ThetaDiscrepancyDeg <= 0 || c.Diagnostics.ThetaDiscrepancyDeg > 180 {
		return errors.New("diagnostics.theta_discrepancy_deg must be in (0,180]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
}
