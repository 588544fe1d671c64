// Public domain.

package merge

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/soniakeys/dstar/internal/dsmeas"
)

// Mode selects the merge policy.
type Mode int

const (
	ModeNone   Mode = iota // no merging
	ModeFull               // merge every compatible measurement
	ModePaper2             // merge recorded/direct pairs only
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeFull:
		return "full"
	case ModePaper2:
		return "paper2"
	}
	return "invalid"
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return ModeNone, nil
	case "full", "":
		return ModeFull, nil
	case "paper2", "paper-ii", "paperii":
		return ModePaper2, nil
	}
	return ModeNone, fmt.Errorf("unknown merge mode %q", s)
}

// Acquisition is how the data cube behind a measurement was taken.
type Acquisition int

const (
	AcqUnknown  Acquisition = iota
	AcqRecorded             // integrated from a recording
	AcqDirect               // direct acquisition
)

func (a Acquisition) String() string {
	switch a {
	case AcqRecorded:
		return "recorded"
	case AcqDirect:
		return "direct"
	}
	return "unknown"
}

var rxAcq = regexp.MustCompile(`_[A-Za-z]([rd])$`)

// Classify reads the acquisition mode from a file name ending in
// "_<band>r" (recorded) or "_<band>d" (direct), e.g. "090904_ads10279_Vd".
// Other names are AcqUnknown.
func Classify(file string) Acquisition {
	base := filepath.Base(file)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	m := rxAcq.FindStringSubmatch(base)
	switch {
	case m == nil:
		return AcqUnknown
	case m[1] == "r":
		return AcqRecorded
	}
	return AcqDirect
}

// Options configure a merge.
type Options struct {
	Mode           Mode
	EpochTolerance float64 // years
	// Paper2RhoLimit is the separation in arcsec above which the direct
	// measurement of a pair is kept alone.
	Paper2RhoLimit float64
}

// DefaultOptions merge in full mode.
var DefaultOptions = Options{
	Mode:           ModeFull,
	EpochTolerance: 0.001,
	Paper2RhoLimit: 0.3,
}

// Stats counts what a merge did.
type Stats struct {
	Merged     int // measurements folded into another
	Duplicates int // unresolved duplicates flagged out
	NoData     int // unresolved measurements flagged in favor of resolved ones
	Discarded  int // Paper-II recorded measurements dropped above the limit
}

// Add accumulates counts.
func (s *Stats) Add(o Stats) {
	s.Merged += o.Merged
	s.Duplicates += o.Duplicates
	s.NoData += o.NoData
	s.Discarded += o.Discarded
}

// Flagged is the number of measurements flagged out.
func (s Stats) Flagged() int {
	return s.Merged + s.Duplicates + s.NoData + s.Discarded
}

// Apply returns a merged copy of objs.  Measurements are never removed;
// redundant ones are flagged out.
func (opt Options) Apply(objs []dsmeas.Object) ([]dsmeas.Object, Stats, error) {
	var st Stats
	out := make([]dsmeas.Object, 0, len(objs))
	for i := range objs {
		o, s, err := opt.Object(objs[i])
		if err != nil {
			return out, st, err
		}
		st.Add(s)
		out = append(out, o)
	}
	return out, st, nil
}

// Object merges the measurements of one object.
func (opt Options) Object(obj dsmeas.Object) (dsmeas.Object, Stats, error) {
	o := obj.Clone()
	switch opt.Mode {
	case ModeFull:
		st, err := opt.full(&o)
		return o, st, err
	case ModePaper2:
		st, err := opt.paper2(&o)
		return o, st, err
	}
	return o, Stats{}, nil
}

// full folds every compatible measurement into the first unflagged one of
// its group.
func (opt Options) full(o *dsmeas.Object) (st Stats, err error) {
	ms := o.Meas
	for i := range ms {
		if ms[i].FlaggedOut {
			continue
		}
		root := i
		// the group is judged by its first member, not the drifting mean
		first := ms[i]
		for j := i + 1; j < len(ms); j++ {
			if ms[j].FlaggedOut || !Compatible(&first, &ms[j], opt.EpochTolerance) {
				continue
			}
			switch a, b := &ms[root], &ms[j]; {
			case !a.Resolved() && !b.Resolved():
				b.FlaggedOut = true
				st.Duplicates++
			case !a.Resolved():
				// keep the resolved one as the group root
				a.FlaggedOut = true
				st.NoData++
				root = j
			case !b.Resolved():
				b.FlaggedOut = true
				st.NoData++
			default:
				m, err := Pair(*a, *b)
				if err != nil {
					return st, wrap(o, b, err)
				}
				*a = m
				b.FlaggedOut = true
				st.Merged++
			}
		}
	}
	return st, nil
}

// paper2 merges each direct measurement with one recorded measurement of
// the same epoch.  Above the rho limit the direct one is kept alone.
func (opt Options) paper2(o *dsmeas.Object) (st Stats, err error) {
	ms := o.Meas
	claimed := make([]bool, len(ms))
	for i := range ms {
		if ms[i].FlaggedOut || claimed[i] || Classify(ms[i].File) != AcqDirect {
			continue
		}
		for j := range ms {
			if j == i || claimed[j] || ms[j].FlaggedOut ||
				Classify(ms[j].File) != AcqRecorded ||
				!Compatible(&ms[i], &ms[j], opt.EpochTolerance) {
				continue
			}
			claimed[i], claimed[j] = true, true
			d, r := &ms[i], &ms[j]
			switch {
			case !d.Resolved() && !r.Resolved():
				// second in list order is the duplicate
				if i < j {
					r.FlaggedOut = true
				} else {
					d.FlaggedOut = true
				}
				st.Duplicates++
			case !d.Resolved():
				d.FlaggedOut = true
				st.NoData++
			case !r.Resolved():
				r.FlaggedOut = true
				st.NoData++
			case d.Rho.Or(0) > opt.Paper2RhoLimit:
				r.FlaggedOut = true
				st.Discarded++
			default:
				m, err := Pair(*d, *r)
				if err != nil {
					return st, wrap(o, r, err)
				}
				*d = m
				r.FlaggedOut = true
				st.Merged++
			}
			break
		}
	}
	return st, nil
}
