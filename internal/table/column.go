// Public domain.

package table

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
)

// Errors returned by Row accessors.  None of them are fatal; callers decide
// what a failed field means for the row.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrParse          = errors.New("parse failure")
	ErrNoData         = errors.New("no data")
)

// Row is a logical row split into fields.  Columns are 1 based.
type Row struct {
	Line   int
	Text   string
	fields []string
}

// NewRow splits text on unescaped separators.
func NewRow(line int, text string) *Row {
	return &Row{Line: line, Text: text, fields: SplitFields(text)}
}

// SplitFields splits text on unescaped '&'.  An escaped separator, "\&",
// is kept in the field as a plain '&'.  Fields are not trimmed.
func SplitFields(text string) []string {
	var fields []string
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text) && text[i+1] == Separator:
			b.WriteByte(Separator)
			i++
		case c == Separator:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	return append(fields, b.String())
}

// NumFields returns the number of fields in the row.
func (r *Row) NumFields() int { return len(r.fields) }

// Field returns column i, trimmed.  An index past the last field is
// ErrColumnNotFound, which is distinct from a present but empty field.
func (r *Row) Field(i int) (string, error) {
	if i < 1 || i > len(r.fields) {
		return "", fmt.Errorf("line %d column %d: %w", r.Line, i, ErrColumnNotFound)
	}
	return strings.TrimSpace(r.fields[i-1]), nil
}

// Float returns column i as a number.  The no-data marker yields ErrNoData.
func (r *Row) Float(i int) (float64, error) {
	s, err := r.Field(i)
	if err != nil {
		return 0, err
	}
	if s == NoData {
		return 0, ErrNoData
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("line %d column %d (%q): %w", r.Line, i, s, ErrParse)
	}
	return f, nil
}

// Int returns column i as an integer.
func (r *Row) Int(i int) (int, error) {
	s, err := r.Field(i)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("line %d column %d (%q): %w", r.Line, i, s, ErrParse)
	}
	return n, nil
}

// Epoch returns column i decoded as a fractional year.
func (r *Row) Epoch(i int, c Calendar) (float64, error) {
	s, err := r.Field(i)
	if err != nil {
		return 0, err
	}
	ep, err := c.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("line %d column %d: %w", r.Line, i, err)
	}
	return ep, nil
}

// Calendar describes how dates are turned into fractional years.
//
// Measurement files record only the civil date of the night, so a fixed
// UT hour is assumed for every observation.
type Calendar struct {
	Julian bool    // Julian years rather than Besselian
	Hour   float64 // assumed UT hour of observation
}

// DefaultCalendar is Besselian years at 22h UT.
var DefaultCalendar = Calendar{Hour: 22}

// Parse decodes "dd/mm/yyyy", or a value already written as a fractional
// year, to a fractional year.
func (c Calendar) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		y, err := strconv.ParseFloat(s, 64)
		if err != nil || !strings.Contains(s, ".") {
			return 0, fmt.Errorf("date %q: %w", s, ErrParse)
		}
		return y, nil
	}
	f := strings.Split(s, "/")
	if len(f) != 3 {
		return 0, fmt.Errorf("date %q: %w", s, ErrParse)
	}
	d, err1 := strconv.Atoi(f[0])
	m, err2 := strconv.Atoi(f[1])
	y, err3 := strconv.Atoi(f[2])
	if err1 != nil || err2 != nil || err3 != nil ||
		d < 1 || d > 31 || m < 1 || m > 12 {
		return 0, fmt.Errorf("date %q: %w", s, ErrParse)
	}
	// ΔT is ignored; a few seconds are far below the epoch precision
	// published with the measurements.
	jd := julian.CalendarGregorianToJD(y, m, float64(d)+c.Hour/24)
	if c.Julian {
		return base.JDEToJulianYear(jd), nil
	}
	return base.JDEToBesselianYear(jd), nil
}
