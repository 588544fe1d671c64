// Public domain.

// Package catalog reads the flat fixed-column catalogs used to identify
// and enrich double star measurements: the Washington Double Star catalog
// summary (WDS) and the Hipparcos main catalog.
//
// Catalogs are read once per run and searched linearly.  There is no
// index; the first entry satisfying a rule wins.
package catalog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/dstar/internal/dsmeas"
)

// CommentMarker starts a comment line in a catalog file.
const CommentMarker = '#'

// WDS summary layout, 0 based [start, end) byte offsets.
var (
	wdsDesig   = [2]int{0, 10}
	wdsDisc    = [2]int{10, 17}
	wdsComp    = [2]int{17, 22}
	wdsFirst   = [2]int{23, 27}
	wdsLast    = [2]int{28, 32}
	wdsNObs    = [2]int{33, 37}
	wdsPAFirst = [2]int{38, 41}
	wdsPALast  = [2]int{42, 45}
	wdsSepF    = [2]int{46, 51}
	wdsSepL    = [2]int{52, 57}
	wdsMag1    = [2]int{58, 63}
	wdsMag2    = [2]int{64, 69}
	wdsSpType  = [2]int{70, 79}
	wdsNotes   = [2]int{107, 111}
	wdsPrecise = [2]int{112, 130}
)

// ErrNoEntries is returned for a catalog file with no readable entries.
var ErrNoEntries = errors.New("no catalog entries")

// WDSRecord is one line of the WDS summary.
type WDSRecord struct {
	WDS        string
	Discoverer string // as in the catalog, e.g. "STF2118"
	Components string // may be empty
	FirstYear  dsmeas.Value
	LastYear   dsmeas.Value
	NObs       int
	FirstTheta dsmeas.Value
	LastTheta  dsmeas.Value
	FirstRho   dsmeas.Value
	LastRho    dsmeas.Value
	Mag1       dsmeas.Value
	Mag2       dsmeas.Value
	SpType     string
	Notes      string

	Pos     coord.Equatorial // from precise coordinates when present
	Precise bool

	norm string // normalized discoverer
}

// field returns line[f[0]:f[1]] trimmed, or what part of it exists.
func field(line string, f [2]int) string {
	if f[0] >= len(line) {
		return ""
	}
	end := f[1]
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[f[0]:end])
}

// number parses an optional numeric field.  Blank is None.
func number(line string, f [2]int) (dsmeas.Value, error) {
	s := field(line, f)
	if s == "" || s == "." {
		return dsmeas.Value{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return dsmeas.Value{}, fmt.Errorf("columns %d-%d (%q): %v", f[0]+1, f[1], s, err)
	}
	return dsmeas.Of(v), nil
}

// ParseWDSLine parses one line of the WDS summary.
func ParseWDSLine(line string) (r WDSRecord, err error) {
	r.WDS = field(line, wdsDesig)
	if r.Pos, err = dsmeas.ParseWDS(r.WDS); err != nil {
		return
	}
	r.Discoverer = field(line, wdsDisc)
	if r.Discoverer == "" {
		return r, fmt.Errorf("%s: missing discoverer", r.WDS)
	}
	r.norm = dsmeas.NormDiscoverer(r.Discoverer)
	r.Components = dsmeas.NormCompanion(field(line, wdsComp))
	for _, p := range []struct {
		v *dsmeas.Value
		f [2]int
	}{
		{&r.FirstYear, wdsFirst},
		{&r.LastYear, wdsLast},
		{&r.FirstTheta, wdsPAFirst},
		{&r.LastTheta, wdsPALast},
		{&r.FirstRho, wdsSepF},
		{&r.LastRho, wdsSepL},
		{&r.Mag1, wdsMag1},
		{&r.Mag2, wdsMag2},
	} {
		if *p.v, err = number(line, p.f); err != nil {
			return r, fmt.Errorf("%s: %w", r.WDS, err)
		}
	}
	r.NObs, _ = strconv.Atoi(field(line, wdsNObs))
	r.SpType = field(line, wdsSpType)
	r.Notes = field(line, wdsNotes)
	if pos, ok := parsePrecise(field(line, wdsPrecise)); ok {
		r.Pos, r.Precise = pos, true
	}
	return r, nil
}

// parsePrecise decodes "hhmmss.ss+ddmmss.s".
func parsePrecise(s string) (coord.Equatorial, bool) {
	i := strings.IndexAny(s, "+-")
	if i != 9 || len(s) < 16 {
		return coord.Equatorial{}, false
	}
	h, err1 := strconv.Atoi(s[0:2])
	m, err2 := strconv.Atoi(s[2:4])
	sec, err3 := strconv.ParseFloat(s[4:9], 64)
	d, err4 := strconv.Atoi(s[10:12])
	dm, err5 := strconv.Atoi(s[12:14])
	ds, err6 := strconv.ParseFloat(s[14:], 64)
	if err1 != nil || err2 != nil || err3 != nil ||
		err4 != nil || err5 != nil || err6 != nil {
		return coord.Equatorial{}, false
	}
	dec := unit.AngleFromDeg(float64(d) + float64(dm)/60 + ds/3600)
	if s[9] == '-' {
		dec = -dec
	}
	return coord.Equatorial{
		RA:  unit.RAFromHour(float64(h) + float64(m)/60 + sec/3600),
		Dec: dec,
	}, true
}

// WDS is a loaded WDS summary.
type WDS struct {
	Records []WDSRecord
	Skipped int // lines that did not parse
}

// ReadWDS reads a WDS summary.  Comment lines, short lines and lines that
// do not parse, such as column headings, are quietly skipped.
func ReadWDS(r io.Reader) (*WDS, error) {
	w := &WDS{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 512), 1<<16)
	for sc.Scan() {
		line := sc.Text()
		if len(line) < wdsComp[0] || line[0] == CommentMarker {
			continue
		}
		rec, err := ParseWDSLine(line)
		if err != nil {
			w.Skipped++
			continue
		}
		w.Records = append(w.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(w.Records) == 0 {
		return nil, ErrNoEntries
	}
	return w, nil
}

// ReadWDSFile reads a WDS summary file.
func ReadWDSFile(fn string) (*WDS, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w, err := ReadWDS(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return w, nil
}
