// Public domain.

package catalog

import (
	"log/slog"

	"github.com/soniakeys/unit"

	"github.com/soniakeys/dstar/internal/dsmeas"
)

// Catalogs are the loaded catalogs and matching radii of a run.  Either
// catalog may be nil.
type Catalogs struct {
	WDS *WDS
	HIP *Hipparcos

	// DesignationRadius is used when the position comes from a WDS
	// designation, good to an arc minute or so.
	DesignationRadius unit.Angle
	// PreciseRadius is used with WDS precise coordinates.
	PreciseRadius unit.Angle
}

// DefaultRadii are the standard positional match radii.
var DefaultRadii = Catalogs{
	DesignationRadius: unit.AngleFromMin(3),
	PreciseRadius:     unit.AngleFromMin(.1),
}

// Stats counts catalog matches.
type Stats struct {
	ByPair        int
	ByDiscoverer  int
	ByDesignation int
	WDSMissed     int
	HIPFound      int
	HIPMissed     int
}

func (s *Stats) count(m Match) {
	switch m {
	case MatchPair:
		s.ByPair++
	case MatchDiscoverer:
		s.ByDiscoverer++
	case MatchDesignation:
		s.ByDesignation++
	default:
		s.WDSMissed++
	}
}

// SeedLast returns a copy of objs with the last catalog measures filled
// from the WDS, where found.  It runs before quadrant resolution so that
// catalog angles are available as references.
func (c *Catalogs) SeedLast(objs []dsmeas.Object) []dsmeas.Object {
	out := make([]dsmeas.Object, len(objs))
	for i := range objs {
		out[i] = objs[i].Clone()
		if c == nil {
			continue
		}
		if r, m := c.WDS.Object(&out[i]); m != NoMatch {
			seed(&out[i].Catalog, r, m)
		}
	}
	return out
}

func seed(ci *dsmeas.CatalogInfo, r *WDSRecord, m Match) {
	ci.WDSFound = true
	ci.WDSMatch = m.String()
	ci.WDS = r.WDS
	ci.FirstYear = r.FirstYear
	ci.LastYear = r.LastYear
	ci.LastTheta = r.LastTheta
	ci.LastRho = r.LastRho
}

// Enrich returns a copy of objs with catalog information attached.
//
// WDS entries are found by discoverer and components, then discoverer,
// then designation.  A found entry supplies a missing WDS designation and
// position.  The Hipparcos entry is the first within the radius of the
// best known position.  Objects with no position get no Hipparcos match.
func (c *Catalogs) Enrich(objs []dsmeas.Object, log *slog.Logger) ([]dsmeas.Object, Stats) {
	var st Stats
	out := make([]dsmeas.Object, len(objs))
	for i := range objs {
		o := objs[i].Clone()
		if c != nil {
			c.enrich(&o, &st, log)
		}
		out[i] = o
	}
	return out, st
}

func (c *Catalogs) enrich(o *dsmeas.Object, st *Stats, log *slog.Logger) {
	ci := &o.Catalog
	r, m := c.WDS.Object(o)
	if c.WDS != nil {
		st.count(m)
	}
	radius := c.DesignationRadius
	if m != NoMatch {
		seed(ci, r, m)
		ci.Mag1, ci.Mag2 = r.Mag1, r.Mag2
		ci.SpType = r.SpType
		if r.Precise {
			ci.Precise, ci.HasPrecise = r.Pos, true
		}
		if o.WDS == "" {
			o.WDS = r.WDS
		}
		if !o.HasPos {
			o.Pos, o.HasPos = r.Pos, true
		}
		if r.Precise {
			radius = c.PreciseRadius
		}
	} else if c.WDS != nil && log != nil {
		log.Debug("no WDS entry", "object", o.Name(), "line", o.Line)
	}
	if c.HIP == nil {
		return
	}
	pos, ok := o.Pos, o.HasPos
	if ci.HasPrecise {
		pos, ok = ci.Precise, true
	}
	if !ok {
		st.HIPMissed++
		return
	}
	h, sep, found := c.HIP.Near(pos, radius)
	if !found {
		st.HIPMissed++
		if log != nil {
			log.Debug("no Hipparcos entry", "object", o.Name(), "radius", radius.Min())
		}
		return
	}
	st.HIPFound++
	ci.HIPFound = true
	ci.HIP = h.HIP
	ci.HIPSep = sep
	ci.VMag = h.VMag
	ci.BV = h.BV
	ci.Parallax = h.Parallax
	ci.ParallaxErr = h.ParallaxErr
	ci.HIPSpType = h.SpType
}
