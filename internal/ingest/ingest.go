// Public domain.

// Package ingest turns scanned table rows into objects and measurements.
//
// A row with an empty first column is a measurement of the current
// object.  Any other row is tried as an object row.  Rows that are
// neither are skipped with a logged reason; they never stop a run.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/table"
)

// Measurement row columns.
const (
	colName       = 1 // empty on measurement rows
	colFile       = 2
	colDate       = 3
	colFilter     = 4
	colInstrument = 5
	colRho        = 6
	colDRho       = 7
	colTheta      = 8
	colDTheta     = 9
	colNotes      = 10

	colADS = 2 // object rows
)

// Options configure ingestion.
type Options struct {
	Scan      table.Options
	Calendar  table.Calendar
	KeepNotes bool // leave KEY=VALUE tokens in the notes text
	Limits    dsmeas.Limits
}

// Stats counts what was read.
type Stats struct {
	Files           int
	Rows            int
	ObjectRows      int
	MeasurementRows int
	Comments        int
	Boilerplate     int
	Orphans         int // measurement rows before any object row
	Unterminated    int
	Truncated       int // physical lines cut at the length limit
	Skipped         int // rows that parsed as neither kind
}

// Reader accumulates rows from one or more files into a store.  Files read
// by one Reader share objects by key.
type Reader struct {
	opt   Options
	log   *slog.Logger
	store *dsmeas.Store
	Stats Stats
}

// New returns a Reader with an empty store.  A nil logger discards.
func New(opt Options, log *slog.Logger) *Reader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Reader{opt: opt, log: log, store: dsmeas.NewStore(opt.Limits)}
}

// Store returns the accumulated store.
func (r *Reader) Store() *dsmeas.Store { return r.store }

// ReadFile reads one input file.  A file that cannot be opened is fatal.
func (r *Reader) ReadFile(fn string) error {
	f, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Read(f, fn)
}

// Read reads one input table.  The only errors are read errors and
// store capacity errors.
func (r *Reader) Read(in io.Reader, name string) error {
	r.Stats.Files++
	sc := table.NewScanner(in, r.opt.Scan)
	defer func() { r.Stats.Truncated += sc.Truncated }()
	cur := -1 // current object, per file
	for {
		it, err := sc.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		switch it.Kind {
		case table.KindComment:
			r.Stats.Comments++
			continue
		case table.KindBoilerplate:
			r.Stats.Boilerplate++
			continue
		}
		r.Stats.Rows++
		if it.Unterminated {
			r.Stats.Unterminated++
			r.log.Debug("unterminated row", "file", name, "line", it.Line)
			continue
		}
		if err := r.row(it.Row(), name, &cur); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
}

func (r *Reader) row(row *table.Row, name string, cur *int) error {
	first, err := row.Field(colName)
	if err != nil {
		return r.skip(name, row, err)
	}
	if first == "" {
		m, err := r.Measurement(row)
		if err != nil {
			return r.skip(name, row, err)
		}
		if *cur < 0 {
			r.Stats.Orphans++
			r.log.Debug("measurement before any object", "file", name, "line", row.Line)
			return nil
		}
		r.Stats.MeasurementRows++
		return r.store.Add(*cur, m)
	}
	o, err := r.Object(row)
	if err != nil {
		return r.skip(name, row, err)
	}
	idx, _, err := r.store.Open(o)
	if err != nil {
		return err
	}
	r.Stats.ObjectRows++
	*cur = idx
	return nil
}

func (r *Reader) skip(name string, row *table.Row, err error) error {
	r.Stats.Skipped++
	r.log.Debug("row skipped", "file", name, "line", row.Line, "reason", err)
	return nil
}

// value reads an optional numeric column.  The no-data marker is NoData.
func value(row *table.Row, col int) (dsmeas.Value, error) {
	f, err := row.Float(col)
	switch {
	case errors.Is(err, table.ErrNoData):
		return dsmeas.NoData, nil
	case err != nil:
		return dsmeas.Value{}, err
	}
	return dsmeas.Of(f), nil
}

// theta reads the position angle column.  A mark left by a reduced table
// is dropped so the table reads back.
func theta(row *table.Row) (dsmeas.Value, error) {
	s, err := row.Field(colTheta)
	if err != nil {
		return dsmeas.Value{}, err
	}
	num, mark := dsmeas.TrimMark(s)
	if mark == "" {
		return value(row, colTheta)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return dsmeas.Value{}, fmt.Errorf("line %d column %d (%q): %w",
			row.Line, colTheta, s, table.ErrParse)
	}
	return dsmeas.Of(f), nil
}

// Measurement parses a measurement row.  An EP= token in the notes
// overrides the date column, which may then be unreadable.
func (r *Reader) Measurement(row *table.Row) (m dsmeas.Measurement, err error) {
	m.Line = row.Line
	if m.File, err = row.Field(colFile); err != nil {
		return
	}
	if m.Filter, err = row.Field(colFilter); err != nil {
		return
	}
	if m.Instrument, err = row.Int(colInstrument); err != nil {
		return
	}
	for _, p := range []struct {
		v   *dsmeas.Value
		col int
	}{
		{&m.Rho, colRho},
		{&m.DRho, colDRho},
		{&m.DTheta, colDTheta},
	} {
		if *p.v, err = value(row, p.col); err != nil {
			return
		}
	}
	if m.Theta, err = theta(row); err != nil {
		return
	}
	// a measurement is resolved in both coordinates or not at all
	if !m.Rho.Known() || !m.Theta.Known() {
		m.Rho, m.DRho, m.Theta, m.DTheta = dsmeas.NoData, dsmeas.NoData, dsmeas.NoData, dsmeas.NoData
	}
	notes := ""
	if row.NumFields() >= colNotes {
		notes, _ = row.Field(colNotes)
	}
	n := dsmeas.ParseNotes(notes, r.opt.KeepNotes)
	m.Notes = n.Text
	m.Quadrant, m.QuadrantUncertain = n.Quadrant()
	m.DeltaMag, m.DeltaMagErr = n.DeltaMag()
	if ep, ok := n.Float(dsmeas.KeyEpoch); ok {
		m.Epoch = ep
		return m, nil
	}
	m.Epoch, err = row.Epoch(colDate, r.opt.Calendar)
	return
}

// Object parses an object row.  The last column holds the notes, with the
// last catalog measures as WY=, WT= and WR= tokens.
func (r *Reader) Object(row *table.Row) (o dsmeas.Object, err error) {
	name, err := row.Field(colName)
	if err != nil {
		return
	}
	if o.WDS, o.Discoverer, o.Companion, err = dsmeas.ParseName(name); err != nil {
		return
	}
	o.Line = row.Line
	if row.NumFields() >= colADS {
		o.ADS, _ = row.Field(colADS)
	}
	if nf := row.NumFields(); nf > colADS {
		s, _ := row.Field(nf)
		n := dsmeas.ParseNotes(s, r.opt.KeepNotes)
		o.Notes = n.Text
		o.LastYear = n.Value(dsmeas.KeyLastYear)
		o.LastTheta = n.Value(dsmeas.KeyLastTheta)
		o.LastRho = n.Value(dsmeas.KeyLastRho)
	}
	return o, nil
}
