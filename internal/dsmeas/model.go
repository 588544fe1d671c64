// Public domain.

// Package dsmeas holds the double star object and measurement model and the
// store that accumulates them while input is read.
package dsmeas

import (
	"github.com/brunoga/deep"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"
)

// Quadrant is a stated quadrant code.  1 through 4 are stated and
// confident; the quadrant-uncertain flag on a Measurement can still
// qualify them.
type Quadrant int8

const (
	QuadUncertain Quadrant = -1 // stated, value uncertain
	QuadUnknown   Quadrant = 0  // not stated
)

// Stated reports whether q names an actual quadrant.
func (q Quadrant) Stated() bool { return q >= 1 && q <= 4 }

// QuadrantStatus records how θ was checked against its 180° ambiguity.
type QuadrantStatus int8

const (
	QuadNotChecked   QuadrantStatus = iota
	QuadConfirmed                   // θ agreed with the stated quadrant
	QuadCorrected                   // θ+180 agreed with the stated quadrant
	QuadConflict                    // neither θ nor θ+180 agreed; θ kept
	QuadCatalogAgree                // no quadrant; θ within 90° of catalog θ
	QuadCatalogFlip                 // no quadrant; θ+180 taken from catalog θ
	QuadUnresolved                  // no quadrant and no trusted catalog θ
)

var quadStatusNames = [...]string{
	"not-checked",
	"confirmed",
	"corrected",
	"conflict",
	"catalog-agree",
	"catalog-flip",
	"unresolved",
}

func (s QuadrantStatus) String() string {
	if s >= 0 && int(s) < len(quadStatusNames) {
		return quadStatusNames[s]
	}
	return "invalid"
}

// FromQuadrant reports whether the status was settled by a stated quadrant.
func (s QuadrantStatus) FromQuadrant() bool {
	return s == QuadConfirmed || s == QuadCorrected
}

// FromCatalog reports whether the status was settled by a catalog angle.
func (s QuadrantStatus) FromCatalog() bool {
	return s == QuadCatalogAgree || s == QuadCatalogFlip
}

// Measurement is one observation of one companion at one epoch.
//
// Rho and DRho are pixels until calibrated, then arcseconds.  Theta and
// DTheta are raw angles until calibrated, then degrees with Theta in
// [0,360).
type Measurement struct {
	Epoch      float64
	Instrument int    // eyepiece focal length in mm, or binning factor
	Filter     string // may be empty
	Rho        Value
	DRho       Value
	Theta      Value
	DTheta     Value

	Quadrant          Quadrant
	QuadrantUncertain bool
	QuadStatus        QuadrantStatus

	DeltaMag    Value
	DeltaMagErr Value

	File  string // source file name recorded in the row
	Line  int    // input line of the row
	Notes string

	Calibrated bool
	FlaggedOut bool
	Merged     int // number of measurements folded into this one

	// Comparison is the matching measurement from a second reduction,
	// if one was attached.
	Comparison *Measurement
}

// Resolved reports whether the pair was resolved in this measurement.
func (m *Measurement) Resolved() bool { return m.Rho.Known() }

// FilterBand is the leading character of the filter name, or 0.
func (m *Measurement) FilterBand() byte {
	if m.Filter == "" {
		return 0
	}
	return m.Filter[0]
}

// Key identifies an object within one run.
type Key struct {
	Discoverer string // canonical, e.g. "STF 2118"
	Companion  string // e.g. "AB", may be empty
}

func (k Key) String() string {
	if k.Companion == "" {
		return k.Discoverer
	}
	return k.Discoverer + " " + k.Companion
}

// Object is one double or multiple star system.
type Object struct {
	WDS        string // "HHMMM±DDMM", may be empty
	Discoverer string
	Companion  string
	ADS        string

	// Pos is decoded from the WDS designation.  It is good enough for
	// sorting and catalog matching, not for astrometry.
	Pos    coord.Equatorial
	HasPos bool

	// last measures from the WDS, stated in the input notes as WR, WT, WY
	LastRho   Value
	LastTheta Value
	LastYear  Value

	Notes   string
	Line    int
	Catalog CatalogInfo
	Meas    []Measurement
}

// Key returns the object's identity key.
func (o *Object) Key() Key {
	return Key{Discoverer: o.Discoverer, Companion: o.Companion}
}

// Name is the display name, "STF 2118 AB".
func (o *Object) Name() string { return o.Key().String() }

// Clone returns a copy of o that shares no storage with o, comparison
// shadows included.  Pipeline stages clone before they annotate.
func (o Object) Clone() Object {
	return deep.MustCopy(o)
}

// Surviving returns the measurements that are not flagged out.
func (o *Object) Surviving() []Measurement {
	var s []Measurement
	for _, m := range o.Meas {
		if !m.FlaggedOut {
			s = append(s, m)
		}
	}
	return s
}

// CatalogInfo holds enrichment from external catalogs.  Fields are None
// when the catalog had no entry or did not give the value.
type CatalogInfo struct {
	WDSFound  bool
	WDSMatch  string // how the entry was matched
	WDS       string // catalog designation
	FirstYear Value
	LastYear  Value
	LastTheta Value
	LastRho   Value
	Mag1      Value
	Mag2      Value
	SpType    string

	Precise    coord.Equatorial
	HasPrecise bool

	HIPFound    bool
	HIP         int
	HIPSep      unit.Angle // separation of the positional match
	VMag        Value
	BV          Value
	Parallax    Value // mas
	ParallaxErr Value // mas
	HIPSpType   string
}
