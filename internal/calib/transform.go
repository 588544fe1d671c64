// Public domain.

package calib

import (
	"fmt"
	"math"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/unit"
)

// Error floors applied after scaling.
const (
	MinDRhoPixels = 0.1   // pixels, converted with the section scale
	MinDRhoRel    = 0.005 // fraction of rho
	MinDTheta     = 0.3   // degrees
)

// NormAngle reduces a angle in degrees to [0,360).
func NormAngle(deg float64) float64 {
	return unit.PMod(deg, 360)
}

// Calibrate returns m converted to arcseconds and degrees with the section
// valid at m's epoch.
func (t *Table) Calibrate(m dsmeas.Measurement) (dsmeas.Measurement, error) {
	s, err := t.Section(m.Epoch)
	if err != nil {
		return m, err
	}
	return s.Calibrate(m)
}

// Calibrate converts m with the section's scale, sign and offset.
//
// Rho and DRho are scaled, then DRho is raised to the noise floor.  Theta
// becomes Theta*Sign + Theta0, reduced to [0,360), and DTheta is raised to
// its floor.  An unresolved measurement passes through unchanged apart
// from being marked calibrated.
func (s *Section) Calibrate(m dsmeas.Measurement) (dsmeas.Measurement, error) {
	scale, err := s.Scale(m.Instrument)
	if err != nil {
		return m, err
	}
	m.Calibrated = true
	rho, ok := m.Rho.Get()
	if !ok {
		return m, nil
	}
	rho *= scale
	drho := math.Max(m.DRho.Or(0)*scale, MinDRhoPixels*scale)
	m.Rho = dsmeas.Of(rho)
	m.DRho = dsmeas.Of(math.Max(drho, MinDRhoRel*rho))
	m.Theta = m.Theta.Map(func(th float64) float64 {
		return NormAngle(th*s.Sign + s.Theta0)
	})
	if m.Theta.Known() {
		m.DTheta = dsmeas.Of(math.Max(m.DTheta.Or(0), MinDTheta))
	}
	return m, nil
}

// Invert undoes the scale and angle transform of Calibrate.  Error floors
// are not undone.  The raw angle is returned in (-180,180], so the angle
// round trip holds modulo 360: a raw 200° comes back as -160°.
func (s *Section) Invert(m dsmeas.Measurement) (dsmeas.Measurement, error) {
	scale, err := s.Scale(m.Instrument)
	if err != nil {
		return m, err
	}
	m.Calibrated = false
	if !m.Rho.Known() {
		return m, nil
	}
	unscale := func(v float64) float64 { return v / scale }
	m.Rho = m.Rho.Map(unscale)
	m.DRho = m.DRho.Map(unscale)
	m.Theta = m.Theta.Map(func(th float64) float64 {
		raw := (th - s.Theta0) * s.Sign
		if raw > 180 {
			raw -= 360
		} else if raw <= -180 {
			raw += 360
		}
		return raw
	})
	return m, nil
}

// Apply returns a calibrated copy of objs.  The first failure is fatal and
// is returned with the object and input line it occurred on.
func Apply(objs []dsmeas.Object, t *Table) ([]dsmeas.Object, error) {
	out := make([]dsmeas.Object, len(objs))
	for i := range objs {
		o := objs[i].Clone()
		for j := range o.Meas {
			m := o.Meas[j]
			if m.Calibrated {
				continue
			}
			c, err := t.Calibrate(m)
			if err != nil {
				return out[:i], fmt.Errorf("%s, line %d: %w", o.Name(), m.Line, err)
			}
			o.Meas[j] = c
		}
		out[i] = o
	}
	return out, nil
}
