// Public domain.

// Package pipeline runs the reduction stages in order:
// ingest, calibrate, catalog seed, quadrant, merge, sort, catalog
// enrichment, comparison, diagnostics.
//
// Each stage takes a snapshot of the objects and returns a new one.  When
// a stage fails the objects of the last completed stage are returned with
// the error, so a driver can still write partial output.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/catalog"
	"github.com/soniakeys/dstar/internal/compare"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/ingest"
	"github.com/soniakeys/dstar/internal/logging"
	"github.com/soniakeys/dstar/internal/merge"
	"github.com/soniakeys/dstar/internal/quadrant"
	"github.com/soniakeys/dstar/internal/report"
)

// ErrNoInput is returned when no input files are given.
var ErrNoInput = errors.New("no input files")

// Options configure a run.
type Options struct {
	Ingest     ingest.Options
	Calib      *calib.Table // nil for tables already calibrated
	Resolver   quadrant.Resolver
	Merge      merge.Options
	Catalogs   *catalog.Catalogs // nil for no catalogs
	Thresholds report.Thresholds

	// Compare names a second reduction of the same observations.  It is
	// read and reduced with the same options.
	Compare []string
}

// Result is the outcome of a run, complete or partial.
type Result struct {
	Objects       []dsmeas.Object
	Stats         report.Stats
	Discrepancies []report.Discrepancy
	Stage         string // last completed stage
}

// Run reads inputs and reduces them.  The result is nil only when
// ingestion fails.
func Run(inputs []string, opt Options, log *slog.Logger) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}
	if log == nil {
		log = logging.Discard()
	}
	objs, st, err := Ingest(inputs, opt.Ingest, logging.Component(log, "ingest"))
	if err != nil {
		return nil, err
	}
	res := &Result{Objects: objs, Stage: "ingest"}
	res.Stats.Ingest = st
	log.Info("input read", "files", st.Files, "objects", len(objs),
		"rows", st.Rows, "skipped", st.Skipped)
	if err := Reduce(res, opt, log); err != nil {
		return res, err
	}
	if len(opt.Compare) > 0 {
		if err := attach(res, opt, log); err != nil {
			return res, err
		}
	}
	res.Finish(opt)
	return res, nil
}

// Ingest reads input files into object snapshots.
func Ingest(inputs []string, opt ingest.Options, log *slog.Logger) ([]dsmeas.Object, ingest.Stats, error) {
	r := ingest.New(opt, log)
	for _, fn := range inputs {
		if err := r.ReadFile(fn); err != nil {
			return nil, r.Stats, err
		}
	}
	return r.Store().Objects(), r.Stats, nil
}

// Reduce runs the stages after ingestion on res.Objects.
func Reduce(res *Result, opt Options, log *slog.Logger) error {
	if log == nil {
		log = logging.Discard()
	}
	if opt.Calib != nil {
		objs, err := calib.Apply(res.Objects, opt.Calib)
		if err != nil {
			// partial output holds only calibrated objects
			res.Objects = objs
			return fmt.Errorf("calibration: %w", err)
		}
		res.Objects, res.Stage = objs, "calibrate"
	} else {
		log.Warn("no calibration table, measurements taken as calibrated")
	}

	res.Objects = opt.Catalogs.SeedLast(res.Objects)
	res.Objects, res.Stage = opt.Resolver.Apply(res.Objects), "quadrant"

	objs, mst, err := opt.Merge.Apply(res.Objects)
	res.Stats.Merge, res.Stats.MergeMode = mst, opt.Merge.Mode
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	res.Objects, res.Stage = objs, "merge"
	log.Info("merged", "mode", opt.Merge.Mode.String(),
		"merged", mst.Merged, "flagged", mst.Flagged())

	dsmeas.SortByPosition(res.Objects)
	for i := range res.Objects {
		dsmeas.SortMeasurements(res.Objects[i].Meas)
	}
	res.Stage = "sort"

	if opt.Catalogs != nil {
		objs, cst := opt.Catalogs.Enrich(res.Objects, logging.Component(log, "catalog"))
		res.Objects, res.Stage = objs, "enrich"
		res.Stats.Catalog = &cst
		log.Info("catalogs matched", "wds_missed", cst.WDSMissed, "hip_found", cst.HIPFound)
	}
	return nil
}

// attach reduces the comparison files and attaches their measurements.
func attach(res *Result, opt Options, log *slog.Logger) error {
	clog := logging.Component(log, "compare")
	objs, _, err := Ingest(opt.Compare, opt.Ingest, clog)
	if err != nil {
		return fmt.Errorf("comparison: %w", err)
	}
	other := &Result{Objects: objs}
	if err := Reduce(other, opt, clog); err != nil {
		return fmt.Errorf("comparison: %w", err)
	}
	out, cst := compare.Attach(res.Objects, other.Objects, opt.Merge.EpochTolerance)
	res.Objects, res.Stage = out, "compare"
	res.Stats.Compare = &cst
	log.Info("compared", "matched", cst.Matched,
		"absent", cst.AbsentObject+cst.AbsentEpoch)
	return nil
}

// Finish fills the statistics and diagnostics from res.Objects.  Run
// calls it on success; call it on a partial result before reporting.
func (res *Result) Finish(opt Options) {
	res.Discrepancies = report.Diagnose(res.Objects, opt.Thresholds)
	res.Stats.Count(res.Objects)
	res.Stats.Discrepant = len(res.Discrepancies)
}
