// Public domain.

package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	sexa "github.com/soniakeys/sexagesimal"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/merge"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// newTable returns a table writer styled for w: rounded box drawing on a
// terminal, plain ASCII otherwise.
func newTable(w io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	if title != "" {
		tw.SetTitle(title)
	}
	return tw
}

func alignRight(cols ...int) []table.ColumnConfig {
	cc := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cc[i] = table.ColumnConfig{Number: c, Align: text.AlignRight, AlignHeader: text.AlignLeft}
	}
	return cc
}

// WriteStats renders the run statistics.
func WriteStats(w io.Writer, s *Stats) {
	tw := newTable(w, "dstar run statistics")
	tw.AppendHeader(table.Row{"Stage", "Count", "Value"})
	in := s.Ingest
	tw.AppendRows([]table.Row{
		{"input", "files", in.Files},
		{"input", "rows", in.Rows},
		{"input", "object rows", in.ObjectRows},
		{"input", "measurement rows", in.MeasurementRows},
		{"input", "orphan rows", in.Orphans},
		{"input", "unterminated rows", in.Unterminated},
		{"input", "skipped rows", in.Skipped},
		{"input", "truncated lines", in.Truncated},
	})
	if in.Comments > 0 {
		tw.AppendRow(table.Row{"input", "comments", in.Comments})
	}
	tw.AppendSeparator()
	tw.AppendRows([]table.Row{
		{"store", "objects", s.Objects},
		{"store", "measurements", s.Measurements},
		{"store", "no data", s.Unresolved},
		{"calibration", "calibrated", s.Calibrated},
	})
	tw.AppendSeparator()
	for q := dsmeas.QuadConfirmed; q <= dsmeas.QuadUnresolved; q++ {
		tw.AppendRow(table.Row{"quadrant", q.String(), s.Quadrant[q]})
	}
	tw.AppendSeparator()
	tw.AppendRows([]table.Row{
		{"merge", "mode", s.MergeMode.String()},
		{"merge", "merged", s.Merge.Merged},
		{"merge", "duplicates", s.Merge.Duplicates},
		{"merge", "no data dropped", s.Merge.NoData},
	})
	if s.MergeMode == merge.ModePaper2 {
		tw.AppendRow(table.Row{"merge", "recorded discarded", s.Merge.Discarded})
	}
	tw.AppendRow(table.Row{"merge", "surviving", s.Surviving})
	if c := s.Catalog; c != nil {
		tw.AppendSeparator()
		tw.AppendRows([]table.Row{
			{"catalog", "WDS by pair", c.ByPair},
			{"catalog", "WDS by discoverer", c.ByDiscoverer},
			{"catalog", "WDS by designation", c.ByDesignation},
			{"catalog", "WDS not found", c.WDSMissed},
			{"catalog", "Hipparcos found", c.HIPFound},
			{"catalog", "Hipparcos not found", c.HIPMissed},
		})
	}
	if c := s.Compare; c != nil {
		tw.AppendSeparator()
		tw.AppendRows([]table.Row{
			{"compare", "matched", c.Matched},
			{"compare", "unresolved", c.Unresolved},
			{"compare", "object absent", c.AbsentObject},
			{"compare", "epoch absent", c.AbsentEpoch},
			{"compare", "mean Δρ″", fmt.Sprintf("%+.3f", c.MeanDRho)},
			{"compare", "max |Δρ|″", fmt.Sprintf("%.3f", c.MaxDRho)},
			{"compare", "mean Δθ°", fmt.Sprintf("%+.2f", c.MeanDTheta)},
			{"compare", "max |Δθ|°", fmt.Sprintf("%.2f", c.MaxDTheta)},
		})
	}
	tw.AppendSeparator()
	tw.AppendRow(table.Row{"diagnostics", "discrepant", s.Discrepant})
	tw.SetColumnConfigs(alignRight(3))
	tw.Render()
}

// WriteObjects renders one line per object with its catalog enrichment.
func WriteObjects(w io.Writer, objs []dsmeas.Object) {
	tw := newTable(w, "")
	tw.AppendHeader(table.Row{"Object", "WDS", "RA", "Dec", "N", "HIP", "V", "π mas"})
	for i := range objs {
		o := &objs[i]
		ra, dec := "", ""
		pos, ok := o.Pos, o.HasPos
		if o.Catalog.HasPrecise {
			pos, ok = o.Catalog.Precise, true
		}
		if ok {
			ra = fmt.Sprintf("%.1s", sexa.FmtRA(pos.RA))
			dec = fmt.Sprintf("%+.0s", sexa.FmtAngle(pos.Dec))
		}
		hip, v, plx := "", "", ""
		if c := &o.Catalog; c.HIPFound {
			hip = strconv.Itoa(c.HIP)
			v = value(c.VMag, 2)
			plx = value(c.Parallax, 2)
			if e, ok := c.ParallaxErr.Get(); ok {
				plx += fmt.Sprintf("±%.2f", e)
			}
		}
		tw.AppendRow(table.Row{o.Name(), o.WDS, ra, dec, len(o.Surviving()), hip, v, plx})
	}
	tw.SetColumnConfigs(alignRight(5, 6, 7, 8))
	tw.Render()
}

// WriteDiscrepancies renders the diagnostic list.
func WriteDiscrepancies(w io.Writer, ds []Discrepancy) {
	if len(ds) == 0 {
		return
	}
	tw := newTable(w, "measurements disagreeing with the catalog")
	tw.AppendHeader(table.Row{"Object", "Epoch", "ρ", "ref ρ", "θ", "ref θ", "File", "Line", "Reason"})
	for _, d := range ds {
		tw.AppendRow(table.Row{
			d.Object,
			fmt.Sprintf("%.4f", d.Epoch),
			fmt.Sprintf("%.3f", d.Rho),
			fmt.Sprintf("%.3f", d.RefRho),
			fmt.Sprintf("%.1f", d.Theta),
			fmt.Sprintf("%.1f", d.RefTheta),
			d.File,
			d.Line,
			d.Reason,
		})
	}
	tw.SetColumnConfigs(alignRight(2, 3, 4, 5, 6, 8))
	tw.Render()
}

// WriteCalibration lists the sections of a calibration table.
func WriteCalibration(w io.Writer, t *calib.Table) {
	tw := newTable(w, "")
	tw.AppendHeader(table.Row{"From", "Epoch", "Sign", "θ0°", "Instrument", "″/px"})
	for _, s := range t.Sections {
		from, ep := s.Date, fmt.Sprintf("%.4f", s.Start)
		if from == "" {
			from, ep = "(undated)", ""
		}
		if len(s.Entries) == 0 {
			tw.AppendRow(table.Row{from, ep, s.Sign, s.Theta0, "", ""})
		}
		for _, e := range s.Entries {
			tw.AppendRow(table.Row{from, ep, s.Sign, s.Theta0, e.Key,
				strconv.FormatFloat(e.Scale, 'f', -1, 64)})
		}
		tw.AppendSeparator()
	}
	tw.SetColumnConfigs(alignRight(2, 3, 4, 6))
	tw.Render()
}

func value(v dsmeas.Value, prec int) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', prec, 64)
}
