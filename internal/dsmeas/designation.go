// Public domain.

package dsmeas

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
)

// ErrDesignation is returned for names that do not parse.
var ErrDesignation = errors.New("invalid designation")

// ParseWDS decodes a WDS designation, "HHMMM±DDMM", to an approximate
// J2000 position.  RA is given to tenths of a minute of time, Dec to
// minutes of arc.
func ParseWDS(s string) (coord.Equatorial, error) {
	if len(s) != 10 || (s[5] != '+' && s[5] != '-') {
		return coord.Equatorial{}, fmt.Errorf("WDS %q: %w", s, ErrDesignation)
	}
	hh, err1 := strconv.Atoi(s[0:2])
	mmm, err2 := strconv.Atoi(s[2:5])
	dd, err3 := strconv.Atoi(s[6:8])
	dm, err4 := strconv.Atoi(s[8:10])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil ||
		hh > 23 || mmm >= 600 || dd > 90 || dm >= 60 {
		return coord.Equatorial{}, fmt.Errorf("WDS %q: %w", s, ErrDesignation)
	}
	dec := unit.AngleFromDeg(float64(dd) + float64(dm)/60)
	if s[5] == '-' {
		dec = -dec
	}
	return coord.Equatorial{
		RA:  unit.RAFromHour(float64(hh) + float64(mmm)/600),
		Dec: dec,
	}, nil
}

var rxName = regexp.MustCompile(
	`^(?:(\d{5}[+-]\d{4})\s*=?\s*)?([A-Za-z]{1,4})\s*(\d+)\s*(.*)$`)

// ParseName splits an object column such as "16564+6502 = STF 2118 AB"
// into WDS designation, canonical discoverer designation and companion
// code.  The WDS part is optional.
func ParseName(s string) (wds, disc, comp string, err error) {
	m := rxName.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", "", fmt.Errorf("name %q: %w", s, ErrDesignation)
	}
	n, _ := strconv.Atoi(m[3])
	disc = strings.ToUpper(m[2]) + " " + strconv.Itoa(n)
	return m[1], disc, NormCompanion(m[4]), nil
}

// NormDiscoverer reduces a discoverer designation to a form for
// comparison: upper case, no blanks, no leading zeros in the number.
// "STF 2118", "STF2118" and "stf 02118" all give "STF2118".
func NormDiscoverer(s string) string {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	i := strings.IndexAny(s, "0123456789")
	if i < 0 {
		return s
	}
	num := strings.TrimLeft(s[i:], "0")
	if num == "" || num[0] < '0' || num[0] > '9' {
		num = "0" + num
	}
	return s[:i] + num
}

// NormCompanion removes blanks from a companion code.
func NormCompanion(s string) string {
	return strings.Join(strings.Fields(s), "")
}
