// Public domain.

// Package quadrant settles the 180° ambiguity of position angles.
//
// A speckle measurement gives θ only modulo 180°.  The ambiguity is broken
// by a stated quadrant (Q= or LQ= in the notes, typically from a triple
// correlation analysis) or, lacking that, by a recent catalog position
// angle for the pair.
package quadrant

import (
	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/dsmeas"
)

// Consistency is the result of checking θ against a quadrant.
type Consistency int8

const (
	Unknown Consistency = iota
	Consistent
	Inconsistent
)

func (c Consistency) String() string {
	switch c {
	case Consistent:
		return "consistent"
	case Inconsistent:
		return "inconsistent"
	}
	return "unknown"
}

// Resolver holds the parameters of the quadrant policy.
type Resolver struct {
	// Tolerance widens each quadrant on both sides, degrees.
	Tolerance float64
	// MinCatalogYear is the oldest catalog observation trusted as a
	// reference angle.
	MinCatalogYear float64
}

// Default is the resolver with standard parameters.
var Default = Resolver{Tolerance: 5, MinCatalogYear: 1980}

// IsConsistent checks θ in degrees against quadrant q.  Quadrant n covers
// [(n-1)·90°, n·90°), widened by the tolerance.  A quadrant that is not
// stated gives Unknown.
func (r Resolver) IsConsistent(theta float64, q dsmeas.Quadrant) Consistency {
	if !q.Stated() {
		return Unknown
	}
	center := float64(q-1)*90 + 45
	if Diff(theta, center) <= 45+r.Tolerance {
		return Consistent
	}
	return Inconsistent
}

// Check is IsConsistent for a measurement.  Without a measured θ the
// result is Unknown.
func (r Resolver) Check(m *dsmeas.Measurement) Consistency {
	th, ok := m.Theta.Get()
	if !ok {
		return Unknown
	}
	return r.IsConsistent(th, m.Quadrant)
}

// Flip returns θ+180° reduced to [0,360).
func Flip(theta float64) float64 {
	return calib.NormAngle(theta + 180)
}

// Diff is the absolute circular difference of two angles in degrees,
// in [0,180].
func Diff(a, b float64) float64 {
	d := calib.NormAngle(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// Resolve returns m with θ checked, and if needed flipped, for object o.
//
// The first rule that applies wins:
//   - θ agrees with the stated quadrant: confirmed.
//   - θ+180 agrees with the stated quadrant: θ is flipped, corrected.
//     If neither agrees, θ is kept and the measurement marked conflict.
//   - no quadrant, and o has a catalog θ from MinCatalogYear or later:
//     θ is flipped when more than 90° from the catalog θ.
//   - otherwise θ is unresolved.
//
// A quadrant stated uncertain, Q=n?, counts as no quadrant here.  It stays
// on the measurement for output.
func (r Resolver) Resolve(m dsmeas.Measurement, o *dsmeas.Object) dsmeas.Measurement {
	th, ok := m.Theta.Get()
	if !ok {
		return m
	}
	q := m.Quadrant
	if m.QuadrantUncertain {
		// an uncertain quadrant is kept for output but settles nothing
		q = dsmeas.QuadUnknown
	}
	switch r.IsConsistent(th, q) {
	case Consistent:
		m.QuadStatus = dsmeas.QuadConfirmed
		return m
	case Inconsistent:
		f := Flip(th)
		if r.IsConsistent(f, m.Quadrant) == Consistent {
			m.Theta = dsmeas.Of(f)
			m.QuadStatus = dsmeas.QuadCorrected
		} else {
			m.QuadStatus = dsmeas.QuadConflict
		}
		return m
	}
	ref, ok := r.reference(o)
	if !ok {
		m.QuadStatus = dsmeas.QuadUnresolved
		return m
	}
	if Diff(th, ref) > 90 {
		m.Theta = dsmeas.Of(Flip(th))
		m.QuadStatus = dsmeas.QuadCatalogFlip
	} else {
		m.QuadStatus = dsmeas.QuadCatalogAgree
	}
	return m
}

// reference returns the trusted catalog θ of o.  Values stated in the input
// take precedence over values found by catalog lookup.
func (r Resolver) reference(o *dsmeas.Object) (float64, bool) {
	if o == nil {
		return 0, false
	}
	wt, wy := o.LastTheta, o.LastYear
	if !wt.Known() || !wy.Known() {
		wt, wy = o.Catalog.LastTheta, o.Catalog.LastYear
	}
	th, ok1 := wt.Get()
	y, ok2 := wy.Get()
	if !ok1 || !ok2 || y < r.MinCatalogYear {
		return 0, false
	}
	return th, true
}

// Apply returns a copy of objs with every measurement resolved.
func (r Resolver) Apply(objs []dsmeas.Object) []dsmeas.Object {
	out := make([]dsmeas.Object, len(objs))
	for i := range objs {
		o := objs[i].Clone()
		for j := range o.Meas {
			if o.Meas[j].FlaggedOut {
				continue
			}
			o.Meas[j] = r.Resolve(o.Meas[j], &o)
		}
		out[i] = o
	}
	return out
}
