// Public domain.

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/table"
)

// Position angle annotations in the output table.  Ingest drops them, so
// a reduced table reads back.
const (
	MarkQuadrant = dsmeas.MarkQuadrant // confirmed or corrected from a stated quadrant
	MarkCatalog  = dsmeas.MarkCatalog  // settled against a catalog angle
)

// WriteTable writes the surviving measurements in the input dialect, each
// object row followed by its measurement rows.  Objects with no surviving
// measurement are left out.
func WriteTable(w io.Writer, objs []dsmeas.Object) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%s{llllllllll}\n", table.BeginArray)
	for i := range objs {
		o := &objs[i]
		ms := o.Surviving()
		if len(ms) == 0 {
			continue
		}
		dsmeas.SortMeasurements(ms)
		fmt.Fprintf(b, "\\hline\n%s %c %s%s %s\n",
			objectName(o), table.Separator, escape(o.ADS), objectNotes(o), table.Terminator)
		for j := range ms {
			writeMeasurement(b, &ms[j])
		}
	}
	fmt.Fprintln(b, "\\hline")
	fmt.Fprintln(b, table.EndArray)
	return b.Flush()
}

func objectName(o *dsmeas.Object) string {
	n := o.Name()
	if o.WDS != "" {
		n = o.WDS + " = " + n
	}
	return n
}

// objectNotes is the last column of an object row, starting with its
// separators.
func objectNotes(o *dsmeas.Object) string {
	var f []string
	lr, lt := reference(o)
	ly := o.LastYear
	if !ly.Known() {
		ly = o.Catalog.LastYear
	}
	if y, ok := ly.Get(); ok {
		f = append(f, fmt.Sprintf("%s=%.0f", dsmeas.KeyLastYear, y))
	}
	if t, ok := lt.Get(); ok {
		f = append(f, fmt.Sprintf("%s=%g", dsmeas.KeyLastTheta, t))
	}
	if r, ok := lr.Get(); ok {
		f = append(f, fmt.Sprintf("%s=%g", dsmeas.KeyLastRho, r))
	}
	if o.Notes != "" {
		f = append(f, escape(o.Notes))
	}
	return strings.Repeat(" "+string(table.Separator), 8) + " " + strings.Join(f, " ")
}

func writeMeasurement(b *bufio.Writer, m *dsmeas.Measurement) {
	sep := " " + string(table.Separator) + " "
	cols := []string{
		"",
		escape(m.File),
		fmt.Sprintf("%.4f", m.Epoch),
		escape(m.Filter),
		fmt.Sprint(m.Instrument),
		number(m.Rho, "%.3f"),
		number(m.DRho, "%.3f"),
		number(m.Theta, "%.2f") + thetaMark(m),
		number(m.DTheta, "%.2f"),
		measurementNotes(m),
	}
	b.WriteString(strings.TrimLeft(strings.Join(cols, sep), " "))
	b.WriteString(" " + table.Terminator + "\n")
}

func number(v dsmeas.Value, format string) string {
	if f, ok := v.Get(); ok {
		return fmt.Sprintf(format, f)
	}
	return table.NoData
}

func thetaMark(m *dsmeas.Measurement) string {
	switch {
	case !m.Theta.Known():
		return ""
	case m.QuadStatus.FromQuadrant():
		return MarkQuadrant
	case m.QuadStatus.FromCatalog():
		return MarkCatalog
	}
	return ""
}

func measurementNotes(m *dsmeas.Measurement) string {
	var f []string
	if m.Quadrant.Stated() {
		q := fmt.Sprintf("%s=%d", dsmeas.KeyQuadrant, m.Quadrant)
		if m.QuadrantUncertain {
			q += "?"
		}
		f = append(f, q)
	}
	if dm, ok := m.DeltaMag.Get(); ok {
		s := fmt.Sprintf("%s=%.2f", dsmeas.KeyDeltaMag, dm)
		if e, ok := m.DeltaMagErr.Get(); ok {
			s += fmt.Sprintf("+-%.2f", e)
		}
		f = append(f, s)
	}
	if m.Merged > 0 {
		f = append(f, fmt.Sprintf("(%d merged)", m.Merged+1))
	}
	if m.QuadStatus == dsmeas.QuadConflict {
		f = append(f, "quadrant conflict")
	}
	if m.Notes != "" {
		f = append(f, escape(m.Notes))
	}
	return strings.Join(f, " ")
}

// escape protects separators and comment markers in free text.
func escape(s string) string {
	s = strings.ReplaceAll(s, string(table.Separator), `\`+string(table.Separator))
	return strings.ReplaceAll(s, string(table.Comment), `\`+string(table.Comment))
}
