// Public domain.

package catalog

import (
	"github.com/soniakeys/meeus/v3/angle"
	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/unit"

	"github.com/soniakeys/dstar/internal/dsmeas"
)

// Match tells which rule found a catalog entry.
type Match int

const (
	NoMatch          Match = iota
	MatchPair              // discoverer and components
	MatchDiscoverer        // discoverer alone
	MatchDesignation       // WDS designation and components
	MatchPosition          // nearest within a radius
)

func (m Match) String() string {
	switch m {
	case MatchPair:
		return "pair"
	case MatchDiscoverer:
		return "discoverer"
	case MatchDesignation:
		return "designation"
	case MatchPosition:
		return "position"
	}
	return "none"
}

// sameComponents compares component labels.  Blank is the primary pair AB.
func sameComponents(a, b string) bool {
	if a == "" {
		a = "AB"
	}
	if b == "" {
		b = "AB"
	}
	return a == b
}

// Lookup finds the WDS entry of a pair.  The first entry matching both
// discoverer and components wins; failing that the first entry of the
// discoverer.  Discoverer names are compared normalized so "STF 2118",
// "STF2118" and "STF02118" agree.
func (w *WDS) Lookup(disc, comp string) (*WDSRecord, Match) {
	if w == nil {
		return nil, NoMatch
	}
	n := dsmeas.NormDiscoverer(disc)
	comp = dsmeas.NormCompanion(comp)
	first := -1
	for i := range w.Records {
		r := &w.Records[i]
		if r.norm != n {
			continue
		}
		if sameComponents(comp, r.Components) {
			return r, MatchPair
		}
		if first < 0 {
			first = i
		}
	}
	if first >= 0 {
		return &w.Records[first], MatchDiscoverer
	}
	return nil, NoMatch
}

// LookupDesignation finds an entry by WDS designation and components.
func (w *WDS) LookupDesignation(wds, comp string) (*WDSRecord, Match) {
	if w == nil || wds == "" {
		return nil, NoMatch
	}
	comp = dsmeas.NormCompanion(comp)
	for i := range w.Records {
		r := &w.Records[i]
		if r.WDS == wds && sameComponents(comp, r.Components) {
			return r, MatchDesignation
		}
	}
	return nil, NoMatch
}

// Object finds the entry for o, by name and then by designation.
func (w *WDS) Object(o *dsmeas.Object) (*WDSRecord, Match) {
	if r, m := w.Lookup(o.Discoverer, o.Companion); m != NoMatch {
		return r, m
	}
	return w.LookupDesignation(o.WDS, o.Companion)
}

// Near returns the first Hipparcos entry within radius of pos, with its
// separation.
func (h *Hipparcos) Near(pos coord.Equatorial, radius unit.Angle) (*HipRecord, unit.Angle, bool) {
	if h == nil {
		return nil, 0, false
	}
	for i := range h.Records {
		r := &h.Records[i]
		// cheap reject on declination before the full separation
		if d := r.Pos.Dec - pos.Dec; d > radius || d < -radius {
			continue
		}
		sep := angle.Sep(unit.Angle(pos.RA), pos.Dec, unit.Angle(r.Pos.RA), r.Pos.Dec)
		if sep <= radius {
			return r, sep, true
		}
	}
	return nil, 0, false
}
