// Public domain.

// Package compare attaches the measurements of a second reduction of the
// same observations to the first, so the two can be differenced.
package compare

import (
	"math"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/quadrant"
)

// Absent returns the shadow attached when the comparison has no match.
// Its values are Missing, never NoData: an unresolved comparison
// measurement is a match.
func Absent() *dsmeas.Measurement {
	return &dsmeas.Measurement{
		Rho:    dsmeas.Missing,
		DRho:   dsmeas.Missing,
		Theta:  dsmeas.Missing,
		DTheta: dsmeas.Missing,
	}
}

// IsAbsent reports whether m is an absent marker.
func IsAbsent(m *dsmeas.Measurement) bool {
	return m != nil && m.Rho.State() == dsmeas.Absent
}

// Stats summarizes a comparison.
type Stats struct {
	Matched      int // shadows attached
	Unresolved   int // of those, unresolved in one reduction or both
	AbsentObject int // object missing from the comparison
	AbsentEpoch  int // object present, epoch missing

	// differences over matched pairs resolved in both
	MeanDRho   float64 // arcsec, this minus comparison
	MaxDRho    float64 // absolute
	MeanDTheta float64 // degrees, circular
	MaxDTheta  float64
}

// Attach returns a copy of objs where each surviving measurement carries a
// Comparison shadow from other.  The shadow is the surviving measurement
// of the same object and filter band with the nearest epoch within
// epochTol years, or an Absent marker.
func Attach(objs, other []dsmeas.Object, epochTol float64) ([]dsmeas.Object, Stats) {
	byKey := make(map[dsmeas.Key]*dsmeas.Object, len(other))
	for i := range other {
		byKey[normKey(&other[i])] = &other[i]
	}
	var st Stats
	var nd int
	out := make([]dsmeas.Object, len(objs))
	for i := range objs {
		o := objs[i].Clone()
		c := byKey[normKey(&o)]
		for j := range o.Meas {
			m := &o.Meas[j]
			if m.FlaggedOut {
				continue
			}
			if c == nil {
				m.Comparison = Absent()
				st.AbsentObject++
				continue
			}
			s := nearest(m, c.Meas, epochTol)
			if s == nil {
				m.Comparison = Absent()
				st.AbsentEpoch++
				continue
			}
			shadow := *s
			shadow.Comparison = nil
			m.Comparison = &shadow
			st.Matched++
			if !m.Resolved() || !shadow.Resolved() {
				st.Unresolved++
				continue
			}
			dr, dt := Diff(m, &shadow)
			nd++
			st.MeanDRho += dr
			st.MeanDTheta += dt
			st.MaxDRho = math.Max(st.MaxDRho, math.Abs(dr))
			st.MaxDTheta = math.Max(st.MaxDTheta, math.Abs(dt))
		}
		out[i] = o
	}
	if nd > 0 {
		st.MeanDRho /= float64(nd)
		st.MeanDTheta /= float64(nd)
	}
	return out, st
}

// Diff returns ρ and θ of m minus those of its shadow s.  The θ difference
// is signed, in (-180,180].
func Diff(m, s *dsmeas.Measurement) (dRho, dTheta float64) {
	dRho = m.Rho.Or(0) - s.Rho.Or(0)
	dTheta = quadrant.Diff(m.Theta.Or(0), s.Theta.Or(0))
	if math.Mod(m.Theta.Or(0)-s.Theta.Or(0)+360, 360) > 180 {
		dTheta = -dTheta
	}
	return
}

func normKey(o *dsmeas.Object) dsmeas.Key {
	c := dsmeas.NormCompanion(o.Companion)
	if c == "AB" {
		c = ""
	}
	return dsmeas.Key{Discoverer: dsmeas.NormDiscoverer(o.Discoverer), Companion: c}
}

func nearest(m *dsmeas.Measurement, cs []dsmeas.Measurement, tol float64) *dsmeas.Measurement {
	var best *dsmeas.Measurement
	bd := math.Inf(1)
	for i := range cs {
		c := &cs[i]
		if c.FlaggedOut || c.FilterBand() != m.FilterBand() {
			continue
		}
		if d := math.Abs(c.Epoch - m.Epoch); d <= tol && d < bd {
			best, bd = c, d
		}
	}
	return best
}
