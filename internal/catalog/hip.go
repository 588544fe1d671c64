// Public domain.

package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/dstar/internal/dsmeas"
)

// Hipparcos main catalog layout, 0 based [start, end) byte offsets.
var (
	hipNumber = [2]int{8, 14}
	hipRA     = [2]int{17, 28} // "hh mm ss.ss"
	hipDec    = [2]int{29, 40} // "+dd mm ss.s"
	hipVMag   = [2]int{41, 46}
	hipPlx    = [2]int{79, 86}
	hipEPlx   = [2]int{119, 125}
	hipBV     = [2]int{245, 251}
	hipSpType = [2]int{435, 447}
)

// HipRecord is one Hipparcos entry.
type HipRecord struct {
	HIP         int
	Pos         coord.Equatorial
	VMag        dsmeas.Value
	BV          dsmeas.Value
	Parallax    dsmeas.Value // mas
	ParallaxErr dsmeas.Value // mas
	SpType      string
}

// ParseHipLine parses one line of the Hipparcos main catalog.
func ParseHipLine(line string) (r HipRecord, err error) {
	if len(line) < hipVMag[0] || line[0] != 'H' {
		return r, fmt.Errorf("not a Hipparcos entry")
	}
	if r.HIP, err = strconv.Atoi(field(line, hipNumber)); err != nil {
		return r, fmt.Errorf("HIP number: %v", err)
	}
	var ok bool
	if r.Pos, ok = parseSexa(field(line, hipRA), field(line, hipDec)); !ok {
		return r, fmt.Errorf("HIP %d: invalid position", r.HIP)
	}
	for _, p := range []struct {
		v *dsmeas.Value
		f [2]int
	}{
		{&r.VMag, hipVMag},
		{&r.Parallax, hipPlx},
		{&r.ParallaxErr, hipEPlx},
		{&r.BV, hipBV},
	} {
		if *p.v, err = number(line, p.f); err != nil {
			return r, fmt.Errorf("HIP %d: %w", r.HIP, err)
		}
	}
	r.SpType = field(line, hipSpType)
	return r, nil
}

// parseSexa decodes "hh mm ss.ss" and "+dd mm ss.s".
func parseSexa(ra, dec string) (coord.Equatorial, bool) {
	rf, df := strings.Fields(ra), strings.Fields(dec)
	if len(rf) != 3 || len(df) != 3 || len(df[0]) < 2 {
		return coord.Equatorial{}, false
	}
	h, err1 := strconv.Atoi(rf[0])
	m, err2 := strconv.Atoi(rf[1])
	s, err3 := strconv.ParseFloat(rf[2], 64)
	neg := df[0][0] == '-'
	d, err4 := strconv.Atoi(strings.TrimLeft(df[0], "+-"))
	dm, err5 := strconv.Atoi(df[1])
	ds, err6 := strconv.ParseFloat(df[2], 64)
	if err1 != nil || err2 != nil || err3 != nil ||
		err4 != nil || err5 != nil || err6 != nil {
		return coord.Equatorial{}, false
	}
	a := unit.AngleFromDeg(float64(d) + float64(dm)/60 + ds/3600)
	if neg {
		a = -a
	}
	return coord.Equatorial{
		RA:  unit.RAFromHour(float64(h) + float64(m)/60 + s/3600),
		Dec: a,
	}, true
}

// Hipparcos is a loaded Hipparcos catalog.
type Hipparcos struct {
	Records []HipRecord
	Skipped int
}

// ReadHipparcos reads the Hipparcos main catalog, skipping lines that do
// not parse.
func ReadHipparcos(r io.Reader) (*Hipparcos, error) {
	h := &Hipparcos{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1<<16)
	for sc.Scan() {
		line := sc.Text()
		if len(line) == 0 || line[0] == CommentMarker {
			continue
		}
		rec, err := ParseHipLine(line)
		if err != nil {
			h.Skipped++
			continue
		}
		h.Records = append(h.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(h.Records) == 0 {
		return nil, ErrNoEntries
	}
	return h, nil
}

// ReadHipparcosFile reads a Hipparcos catalog file.
func ReadHipparcosFile(fn string) (*Hipparcos, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	h, err := ReadHipparcos(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return h, nil
}
