// Public domain.

package dsmeas

import "sort"

// SortByPosition sorts objects by RA, then Dec, in place.  Objects without
// a position sort last.  Remaining ties are broken by key so the order is
// total.
func SortByPosition(objs []Object) {
	sort.SliceStable(objs, func(i, j int) bool {
		return lessPosition(&objs[i], &objs[j])
	})
}

func lessPosition(a, b *Object) bool {
	if a.HasPos != b.HasPos {
		return a.HasPos
	}
	if a.HasPos {
		if a.Pos.RA != b.Pos.RA {
			return a.Pos.RA < b.Pos.RA
		}
		if a.Pos.Dec != b.Pos.Dec {
			return a.Pos.Dec < b.Pos.Dec
		}
	}
	if na, nb := NormDiscoverer(a.Discoverer), NormDiscoverer(b.Discoverer); na != nb {
		return na < nb
	}
	if a.Discoverer != b.Discoverer {
		return a.Discoverer < b.Discoverer
	}
	return a.Companion < b.Companion
}

// SortMeasurements orders an object's measurements by epoch.
func SortMeasurements(ms []Measurement) {
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Epoch < ms[j].Epoch
	})
}
