// Public domain.

// Package merge folds redundant measurements of one epoch into one.
package merge

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/quadrant"
)

// ErrZeroWeight is returned when two measurements carry zero errors, so no
// weights can be formed.  It is fatal.
var ErrZeroWeight = errors.New("cannot weight measurements with zero errors")

// Weights returns the merge weights of a and b, summing to 1.
//
// Each measurement is weighted by the other's share of the rho error plus
// the other's share of the theta error.  This is the convention of the
// published series, not an inverse variance weight.
func Weights(a, b *dsmeas.Measurement) (wa, wb float64, err error) {
	dra, drb := a.DRho.Or(0), b.DRho.Or(0)
	dta, dtb := a.DTheta.Or(0), b.DTheta.Or(0)
	sr, st := dra+drb, dta+dtb
	if sr == 0 || st == 0 {
		return 0, 0, ErrZeroWeight
	}
	wa = drb/sr + dtb/st
	wb = dra/sr + dta/st
	sum := wa + wb
	return wa / sum, wb / sum, nil
}

// Pair merges two resolved measurements.  The result carries a's identity
// (file, line, instrument, filter) with weighted values.  Merged errors are
// the weighted quadrature sqrt(wa·da² + wb·db²).
//
// When the angles differ by more than 90° one of them is taken to be on
// the wrong side of the 180° ambiguity and is flipped first.  The angle
// flipped is the one with weaker quadrant evidence.
func Pair(a, b dsmeas.Measurement) (dsmeas.Measurement, error) {
	wa, wb, err := Weights(&a, &b)
	if err != nil {
		return a, err
	}
	tha, thb := a.Theta.Or(0), b.Theta.Or(0)
	if quadrant.Diff(tha, thb) > 90 {
		if flipFirst(&a, &b) {
			tha = quadrant.Flip(tha)
			a.QuadStatus = b.QuadStatus
		} else {
			thb = quadrant.Flip(thb)
		}
	}
	// align b with a across 0°
	d := calib.NormAngle(thb - tha)
	if d > 180 {
		d -= 360
	}
	m := a
	m.Epoch = wa*a.Epoch + wb*b.Epoch
	m.Rho = dsmeas.Of(wa*a.Rho.Or(0) + wb*b.Rho.Or(0))
	m.Theta = dsmeas.Of(calib.NormAngle(tha + wb*d))
	m.DRho = dsmeas.Of(quad(wa, wb, a.DRho.Or(0), b.DRho.Or(0)))
	m.DTheta = dsmeas.Of(quad(wa, wb, a.DTheta.Or(0), b.DTheta.Or(0)))
	switch {
	case a.DeltaMag.Known() && b.DeltaMag.Known():
		m.DeltaMag = dsmeas.Of(wa*a.DeltaMag.Or(0) + wb*b.DeltaMag.Or(0))
		if a.DeltaMagErr.Known() && b.DeltaMagErr.Known() {
			m.DeltaMagErr = dsmeas.Of(quad(wa, wb,
				a.DeltaMagErr.Or(0), b.DeltaMagErr.Or(0)))
		}
	case b.DeltaMag.Known():
		m.DeltaMag, m.DeltaMagErr = b.DeltaMag, b.DeltaMagErr
	}
	propagateQuadrant(&m, &b)
	m.Merged = a.Merged + b.Merged + 1
	m.Notes = joinNotes(a.Notes, b.Notes)
	return m, nil
}

func quad(wa, wb, da, db float64) float64 {
	return math.Sqrt(wa*da*da + wb*db*db)
}

// evidence ranks how well θ's side of the ambiguity is established.
func evidence(m *dsmeas.Measurement) int {
	switch {
	case m.QuadStatus.FromQuadrant():
		return 3
	case m.QuadStatus.FromCatalog():
		return 2
	case m.Quadrant.Stated() && !m.QuadrantUncertain:
		return 1
	}
	return 0
}

// flipFirst reports whether a, rather than b, should be flipped.  The
// choice is symmetric so that merging is independent of order.
func flipFirst(a, b *dsmeas.Measurement) bool {
	ea, eb := evidence(a), evidence(b)
	if ea != eb {
		return ea < eb
	}
	if a.DTheta.Or(0) != b.DTheta.Or(0) {
		return a.DTheta.Or(0) > b.DTheta.Or(0)
	}
	return a.Theta.Or(0) > b.Theta.Or(0)
}

// propagateQuadrant copies a stated quadrant from b when m has none.
func propagateQuadrant(m, b *dsmeas.Measurement) {
	if m.Quadrant.Stated() || !b.Quadrant.Stated() {
		return
	}
	m.Quadrant = b.Quadrant
	m.QuadrantUncertain = b.QuadrantUncertain
	if b.QuadStatus.FromQuadrant() {
		m.QuadStatus = b.QuadStatus
	}
}

func joinNotes(a, b string) string {
	switch {
	case b == "" || strings.Contains(a, b):
		return a
	case a == "":
		return b
	}
	return a + "; " + b
}

// Compatible reports whether a and b observe the same epoch with the same
// instrument and filter band.
func Compatible(a, b *dsmeas.Measurement, epochTol float64) bool {
	return math.Abs(a.Epoch-b.Epoch) <= epochTol &&
		a.Instrument == b.Instrument &&
		a.FilterBand() == b.FilterBand()
}

func wrap(o *dsmeas.Object, m *dsmeas.Measurement, err error) error {
	return fmt.Errorf("%s, line %d, epoch %.4f: %w", o.Name(), m.Line, m.Epoch, err)
}
