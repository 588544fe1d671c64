// Public domain.

package dsprog

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/catalog"
	"github.com/soniakeys/dstar/internal/config"
	"github.com/soniakeys/dstar/internal/logging"
	"github.com/soniakeys/dstar/internal/pipeline"
	"github.com/soniakeys/dstar/internal/report"
)

type reduceFlags struct {
	calib, mode, wds, hip, out, logFile string
	compare                             []string
	objects, noStats                    bool
}

func (a *app) reduceCommand() *cobra.Command {
	var f reduceFlags
	cmd := &cobra.Command{
		Use:   "reduce [flags] FILE...",
		Short: "Reduce measurement tables",
		Long: `Reduce reads one or more measurement tables, calibrates, resolves
quadrants, merges duplicates and cross references catalogs.  The reduced
table is written to stdout or --out.

When a stage fails, the objects completed so far are still written and
the command exits non-zero.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.reduce(cmd, args, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.calib, "calib", "", "calibration file")
	fl.StringVar(&f.mode, "mode", "", "merge mode: full, paper2, none")
	fl.StringVar(&f.wds, "wds", "", "WDS summary file")
	fl.StringVar(&f.hip, "hip", "", "Hipparcos main catalog file")
	fl.StringSliceVar(&f.compare, "compare", nil, "second reduction to compare against")
	fl.StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	fl.StringVar(&f.logFile, "log-file", "", "JSON run log file")
	fl.BoolVar(&f.objects, "objects", false, "list objects with catalog data")
	fl.BoolVar(&f.noStats, "no-stats", false, "omit the statistics table")
	return cmd
}

// override applies flags given on the command line over cfg.
func (f *reduceFlags) override(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("calib") {
		cfg.Input.Calibration = f.calib
	}
	if fl.Changed("mode") {
		cfg.Merge.Mode = f.mode
	}
	if fl.Changed("wds") {
		cfg.Catalog.WDSPath = f.wds
	}
	if fl.Changed("hip") {
		cfg.Catalog.HIPPath = f.hip
	}
	if fl.Changed("log-file") {
		cfg.Logging.File = f.logFile
	}
	return cfg.Finish()
}

func (a *app) reduce(cmd *cobra.Command, inputs []string, f *reduceFlags) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := f.override(cmd, cfg); err != nil {
		return err
	}
	log, closer, err := logging.New(cfg.Logging, a.stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	opt, err := pipeline.FromConfig(cfg, logging.Component(log, "catalog"))
	if err != nil {
		log.Error("setup failed", "error", err)
		return err
	}
	opt.Compare = f.compare
	res, runErr := pipeline.Run(inputs, opt, log)
	if res == nil {
		log.Error("input failed", "error", runErr)
		return runErr
	}
	if runErr != nil {
		log.Error("reduction stopped", "stage", res.Stage, "error", runErr)
		res.Finish(opt)
	}
	if err := a.writeTable(f.out, res); err != nil {
		return err
	}
	if f.objects {
		report.WriteObjects(a.stderr, res.Objects)
	}
	if !f.noStats {
		report.WriteStats(a.stderr, &res.Stats)
	}
	report.WriteDiscrepancies(a.stderr, res.Discrepancies)
	return runErr
}

func (a *app) writeTable(fn string, res *pipeline.Result) error {
	if fn == "" || fn == "-" {
		return report.WriteTable(a.stdout, res.Objects)
	}
	out, err := os.Create(fn)
	if err != nil {
		return err
	}
	if err := report.WriteTable(out, res.Objects); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (a *app) calibCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calib",
		Short: "Calibration table tools",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "check FILE",
		Short: "Parse a calibration file and list its sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			t, err := calib.ReadFile(args[0], pipeline.Calendar(cfg))
			if err != nil {
				return err
			}
			report.WriteCalibration(a.stdout, t)
			return nil
		},
	})
	return cmd
}

func (a *app) fetchCommand() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "fetch-wds [PATH]",
		Short: "Download the WDS summary file",
		Long: `Fetch-wds downloads the WDS summary to PATH, or to the configured
wds_path.  A partial download does not replace an existing file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Catalog.WDSPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no path given and no wds_path configured")
			}
			if url == "" {
				url = cfg.Catalog.WDSURL
			}
			n, err := catalog.FetchWDS(cmd.Context(), url, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s: %d bytes\n", path, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "download URL (default from configuration)")
	return cmd
}
