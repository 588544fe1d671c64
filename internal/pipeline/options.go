// Public domain.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/catalog"
	"github.com/soniakeys/dstar/internal/config"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/ingest"
	"github.com/soniakeys/dstar/internal/merge"
	"github.com/soniakeys/dstar/internal/quadrant"
	"github.com/soniakeys/dstar/internal/report"
	"github.com/soniakeys/dstar/internal/table"
)

// Calendar returns the date conversion configured in cfg.
func Calendar(cfg *config.Config) table.Calendar {
	return table.Calendar{
		Julian: cfg.Input.EpochSystem == "julian",
		Hour:   cfg.Input.ObservingHour,
	}
}

// FromConfig builds run options from cfg, reading the calibration table and
// catalogs it names.  An unreadable calibration table is fatal.
func FromConfig(cfg *config.Config, log *slog.Logger) (Options, error) {
	mode, err := merge.ParseMode(cfg.Merge.Mode)
	if err != nil {
		return Options{}, err
	}
	cal := Calendar(cfg)
	opt := Options{
		Ingest: ingest.Options{
			Scan: table.Options{
				IncludeComments: cfg.Input.IncludeComments,
				MaxLine:         cfg.Input.MaxLineLength,
			},
			Calendar:  cal,
			KeepNotes: cfg.Input.KeepNotes,
			Limits: dsmeas.Limits{
				MaxObjects:      cfg.Limits.MaxObjects,
				MaxMeasurements: cfg.Limits.MaxMeasurementsPerObject,
			},
		},
		Resolver: quadrant.Resolver{
			Tolerance:      cfg.Quadrant.ToleranceDeg,
			MinCatalogYear: cfg.Quadrant.CatalogMinYear,
		},
		Merge: merge.Options{
			Mode:           mode,
			EpochTolerance: cfg.Merge.EpochTolerance,
			Paper2RhoLimit: cfg.Merge.Paper2RhoLimit,
		},
		Thresholds: report.Thresholds{
			Rho:   cfg.Diagnostics.RhoDiscrepancy,
			Theta: cfg.Diagnostics.ThetaDiscrepancyDeg,
		},
	}
	if cfg.Input.Calibration != "" {
		if opt.Calib, err = calib.ReadFile(cfg.Input.Calibration, cal); err != nil {
			return opt, err
		}
	}
	opt.Catalogs, err = Catalogs(cfg, log)
	return opt, err
}

// Catalogs loads the catalogs named in cfg.  It returns nil when none is
// named.  A WDS file that cannot be read is fetched afresh from the
// configured URL and read again.
func Catalogs(cfg *config.Config, log *slog.Logger) (*catalog.Catalogs, error) {
	c := cfg.Catalog
	if c.WDSPath == "" && c.HIPPath == "" {
		return nil, nil
	}
	cats := &catalog.Catalogs{
		DesignationRadius: unit.AngleFromMin(c.RadiusDesignationArcmin),
		PreciseRadius:     unit.AngleFromMin(c.RadiusPreciseArcmin),
	}
	if c.WDSPath != "" {
		w, readErr := catalog.ReadWDSFile(c.WDSPath)
		if readErr != nil {
			if log != nil {
				log.Warn("WDS catalog unreadable, fetching", "path", c.WDSPath, "error", readErr)
			}
			if _, err := catalog.FetchWDS(context.Background(), c.WDSURL, c.WDSPath); err != nil {
				return nil, fmt.Errorf("%v; fetch: %w", readErr, err)
			}
			if w, readErr = catalog.ReadWDSFile(c.WDSPath); readErr != nil {
				return nil, readErr
			}
		}
		cats.WDS = w
	}
	if c.HIPPath != "" {
		h, err := catalog.ReadHipparcosFile(c.HIPPath)
		if err != nil {
			return nil, err
		}
		cats.HIP = h
	}
	return cats, nil
}
