// Public domain.

package report

import (
	"fmt"
	"math"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/quadrant"
)

// Thresholds for flagging disagreement with the catalog.
type Thresholds struct {
	Rho   float64 // fraction of the catalog rho
	Theta float64 // degrees
}

// DefaultThresholds are the standard diagnostic thresholds.
var DefaultThresholds = Thresholds{Rho: 0.3, Theta: 20}

// Discrepancy is a surviving measurement that disagrees with the last
// catalog measure of its object.
type Discrepancy struct {
	Object   string
	File     string
	Line     int
	Epoch    float64
	Rho      float64
	RefRho   float64
	Theta    float64
	RefTheta float64
	Reason   string
}

// reference returns the last measure of o, preferring values stated in
// the input over those found in the catalog.
func reference(o *dsmeas.Object) (rho, theta dsmeas.Value) {
	rho, theta = o.LastRho, o.LastTheta
	if !rho.Known() {
		rho = o.Catalog.LastRho
	}
	if !theta.Known() {
		theta = o.Catalog.LastTheta
	}
	return
}

// Diagnose lists surviving resolved measurements whose ρ differs from the
// reference ρ by more than the fractional threshold, or whose θ differs
// from the reference θ by more than the angle threshold.
func Diagnose(objs []dsmeas.Object, th Thresholds) []Discrepancy {
	var ds []Discrepancy
	for i := range objs {
		o := &objs[i]
		refRho, refTheta := reference(o)
		for j := range o.Meas {
			m := &o.Meas[j]
			if m.FlaggedOut || !m.Resolved() {
				continue
			}
			d := Discrepancy{
				Object: o.Name(),
				File:   m.File,
				Line:   m.Line,
				Epoch:  m.Epoch,
				Rho:    m.Rho.Or(0),
				Theta:  m.Theta.Or(0),
			}
			var reason string
			if r, ok := refRho.Get(); ok && r > 0 {
				d.RefRho = r
				if f := math.Abs(d.Rho-r) / r; f > th.Rho {
					reason = fmt.Sprintf("rho off by %.0f%%", f*100)
				}
			}
			if t, ok := refTheta.Get(); ok {
				d.RefTheta = t
				if dt := quadrant.Diff(d.Theta, t); dt > th.Theta {
					if reason != "" {
						reason += ", "
					}
					reason += fmt.Sprintf("theta off by %.1f°", dt)
				}
			}
			if reason != "" {
				d.Reason = reason
				ds = append(ds, d)
			}
		}
	}
	return ds
}
