// Public domain.

// Package calib reads calibration files and converts raw measurements to
// arcseconds and degrees.
//
// A calibration file is a list of "key = value" lines:
//
//	10mm   = 0.0320     scale in arcsec/pixel for the 10mm eyepiece
//	bin1   = 0.0738     scale for CCD binning factor 1
//	sign   = 1          sign applied to raw angles
//	theta0 = 89.94      offset added to raw angles, degrees
//
// A line "=dd/mm/yyyy" starts a section valid from that date.  Each section
// has its own scale table.  Sign and theta0 carry over from the previous
// section unless restated.  Lines before the first dated section form a
// section valid from the beginning of time.  Blank lines and lines starting
// with '#' or '%' are ignored.
package calib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/soniakeys/dstar/internal/table"
)

// MaxEntries is the most scale entries one section may define.
const MaxEntries = 16

// Errors.  All of them are fatal to a reduction.
var (
	ErrKeyCollision      = errors.New("calibration key collision")
	ErrSyntax            = errors.New("calibration syntax error")
	ErrUnknownInstrument = errors.New("no calibration for instrument")
	ErrNoSection         = errors.New("no calibration section for epoch")
)

// Entry is one scale table entry.
type Entry struct {
	Key   string  // as written, "20mm" or "bin1"
	Code  int     // instrument code
	Scale float64 // arcsec per pixel
}

// Section is the calibration valid from Start until the next section.
type Section struct {
	Date    string  // as written, empty for the undated section
	Start   float64 // epoch, -Inf for the undated section
	Entries []Entry
	Sign    float64
	Theta0  float64 // degrees
}

// Table is a parsed calibration file, sections ordered by Start.
type Table struct {
	Sections []Section
}

var rxKV = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*=\s*(\S+)\s*$`)
var rxScaleKey = regexp.MustCompile(`^(?:(\d+)mm|bin(\d+))$`)

// ReadFile reads a calibration file.
func ReadFile(fn string, cal table.Calendar) (*Table, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f, cal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return t, nil
}

// Parse reads a calibration table from r.  Dates in section markers are
// converted to epochs with cal.
func Parse(r io.Reader, cal table.Calendar) (*Table, error) {
	var t Table
	cur := &Section{Start: math.Inf(-1), Sign: 1}
	keys := map[string]bool{}
	codes := map[int]string{}
	started := false // a section has content or a date
	finish := func() {
		if started {
			t.Sections = append(t.Sections, *cur)
		}
	}
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		l := strings.TrimSpace(sc.Text())
		switch {
		case l == "", l[0] == '#', l[0] == '%':
			continue
		case l[0] == '=':
			ep, err := cal.Parse(l[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w: %v", n, ErrSyntax, err)
			}
			finish()
			next := &Section{Date: strings.TrimSpace(l[1:]), Start: ep,
				Sign: cur.Sign, Theta0: cur.Theta0}
			cur, started = next, true
			keys = map[string]bool{}
			codes = map[int]string{}
			continue
		}
		m := rxKV.FindStringSubmatch(l)
		if m == nil {
			return nil, fmt.Errorf("line %d (%s): %w", n, l, ErrSyntax)
		}
		key := m[1]
		if keys[strings.ToLower(key)] {
			return nil, fmt.Errorf("line %d: key %s repeated: %w", n, key, ErrKeyCollision)
		}
		keys[strings.ToLower(key)] = true
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: value %q: %w", n, m[2], ErrSyntax)
		}
		started = true
		switch strings.ToLower(key) {
		case "sign":
			if v != 1 && v != -1 {
				return nil, fmt.Errorf("line %d: sign must be 1 or -1: %w", n, ErrSyntax)
			}
			cur.Sign = v
			continue
		case "theta0":
			cur.Theta0 = v
			continue
		}
		sk := rxScaleKey.FindStringSubmatch(strings.ToLower(key))
		if sk == nil {
			return nil, fmt.Errorf("line %d: unknown key %s: %w", n, key, ErrSyntax)
		}
		code, _ := strconv.Atoi(sk[1] + sk[2])
		if prev, dup := codes[code]; dup {
			return nil, fmt.Errorf("line %d: %s and %s both define instrument %d: %w",
				n, prev, key, code, ErrKeyCollision)
		}
		if v <= 0 {
			return nil, fmt.Errorf("line %d: scale %g: %w", n, v, ErrSyntax)
		}
		if len(cur.Entries) == MaxEntries {
			return nil, fmt.Errorf("line %d: more than %d scales in section: %w",
				n, MaxEntries, ErrSyntax)
		}
		codes[code] = key
		cur.Entries = append(cur.Entries, Entry{Key: key, Code: code, Scale: v})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	finish()
	if len(t.Sections) == 0 {
		return nil, fmt.Errorf("empty calibration: %w", ErrSyntax)
	}
	sort.SliceStable(t.Sections, func(i, j int) bool {
		return t.Sections[i].Start < t.Sections[j].Start
	})
	for i := 1; i < len(t.Sections); i++ {
		if t.Sections[i].Start == t.Sections[i-1].Start {
			return nil, fmt.Errorf("section %s repeated: %w",
				t.Sections[i].Date, ErrKeyCollision)
		}
	}
	return &t, nil
}

// Section returns the section whose validity window contains epoch.
func (t *Table) Section(epoch float64) (*Section, error) {
	for i := len(t.Sections) - 1; i >= 0; i-- {
		if t.Sections[i].Start <= epoch {
			return &t.Sections[i], nil
		}
	}
	return nil, fmt.Errorf("epoch %.4f: %w", epoch, ErrNoSection)
}

// Scale returns the scale for an instrument code.
func (s *Section) Scale(code int) (float64, error) {
	for _, e := range s.Entries {
		if e.Code == code {
			return e.Scale, nil
		}
	}
	return 0, fmt.Errorf("instrument %d: %w", code, ErrUnknownInstrument)
}
