// Public domain.

package config

const (
	defaultMaxLineLength     = 360
	defaultEpochSystem       = "besselian"
	defaultObservingHour     = 22.0
	defaultMaxObjects        = 20000
	defaultMaxMeasurements   = 2000
	defaultQuadTolerance     = 5.0
	defaultCatalogMinYear    = 1980.0
	defaultMergeMode         = "full"
	defaultEpochTolerance    = 0.001
	defaultPaper2RhoLimit    = 0.3
	defaultWDSURL            = "http://www.astro.gsu.edu/wds/Webtextfiles/wdsweb_summ2.txt"
	defaultRadiusDesignation = 3.0
	defaultRadiusPrecise     = 0.1
	defaultRhoDiscrepancy    = 0.3
	defaultThetaDiscrepancy  = 20.0
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 10
	defaultLogMaxBackups     = 3
)

// Default returns a Config populated with the standard defaults.
func Default() Config {
	return Config{
		Input: Input{
			MaxLineLength: defaultMaxLineLength,
			EpochSystem:   defaultEpochSystem,
			ObservingHour: defaultObservingHour,
		},
		Limits: Limits{
			MaxObjects:               defaultMaxObjects,
			MaxMeasurementsPerObject: defaultMaxMeasurements,
		},
		Quadrant: Quadrant{
			ToleranceDeg:   defaultQuadTolerance,
			CatalogMinYear: defaultCatalogMinYear,
		},
		Merge: Merge{
			Mode:           defaultMergeMode,
			EpochTolerance: defaultEpochTolerance,
			Paper2RhoLimit: defaultPaper2RhoLimit,
		},
		Catalog: Catalog{
			WDSURL:                  defaultWDSURL,
			RadiusDesignationArcmin: defaultRadiusDesignation,
			RadiusPreciseArcmin:     defaultRadiusPrecise,
		},
		Diagnostics: Diagnostics{
			RhoDiscrepancy:      defaultRhoDiscrepancy,
			ThetaDiscrepancyDeg: defaultThetaDiscrepancy,
		},
		Logging: Logging{
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
	}
}
