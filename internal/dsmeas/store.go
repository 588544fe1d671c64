// Public domain.

package dsmeas

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned when input exceeds the configured limits.  The
// limits are generous; reaching one means the input is pathological.
var ErrCapacity = errors.New("capacity exceeded")

// Limits bound the size of a Store.
type Limits struct {
	MaxObjects      int
	MaxMeasurements int // per object
}

// DefaultLimits are used for zero fields of a Limits.
var DefaultLimits = Limits{MaxObjects: 20000, MaxMeasurements: 2000}

// Store accumulates objects and measurements during ingestion.  It is the
// only owner of the measurements it holds; Objects returns copies.
type Store struct {
	lim   Limits
	objs  []Object
	index map[Key]int
	nMeas int
}

// NewStore returns an empty store.
func NewStore(lim Limits) *Store {
	if lim.MaxObjects <= 0 {
		lim.MaxObjects = DefaultLimits.MaxObjects
	}
	if lim.MaxMeasurements <= 0 {
		lim.MaxMeasurements = DefaultLimits.MaxMeasurements
	}
	return &Store{lim: lim, index: map[Key]int{}}
}

// Open returns the index of the object with o's key, adding o if the key
// is new.  When the key exists, fields missing from the stored object are
// filled from o.
func (s *Store) Open(o Object) (idx int, created bool, err error) {
	k := o.Key()
	if i, ok := s.index[k]; ok {
		s.objs[i].fill(&o)
		return i, false, nil
	}
	if len(s.objs) >= s.lim.MaxObjects {
		return -1, false, fmt.Errorf("%d objects: %w", len(s.objs), ErrCapacity)
	}
	o.Meas = nil
	if !o.HasPos && o.WDS != "" {
		if p, err := ParseWDS(o.WDS); err == nil {
			o.Pos, o.HasPos = p, true
		}
	}
	s.objs = append(s.objs, o)
	s.index[k] = len(s.objs) - 1
	return len(s.objs) - 1, true, nil
}

func (o *Object) fill(n *Object) {
	if o.WDS == "" && n.WDS != "" {
		o.WDS = n.WDS
		if p, err := ParseWDS(n.WDS); err == nil {
			o.Pos, o.HasPos = p, true
		}
	}
	if o.ADS == "" {
		o.ADS = n.ADS
	}
	if !o.LastRho.Known() {
		o.LastRho = n.LastRho
	}
	if !o.LastTheta.Known() {
		o.LastTheta = n.LastTheta
	}
	if !o.LastYear.Known() {
		o.LastYear = n.LastYear
	}
}

// Add appends a measurement to object idx.
func (s *Store) Add(idx int, m Measurement) error {
	if idx < 0 || idx >= len(s.objs) {
		return fmt.Errorf("object index %d out of range", idx)
	}
	o := &s.objs[idx]
	if len(o.Meas) >= s.lim.MaxMeasurements {
		return fmt.Errorf("%s: %d measurements: %w",
			o.Name(), len(o.Meas), ErrCapacity)
	}
	o.Meas = append(o.Meas, m)
	s.nMeas++
	return nil
}

// Len returns the number of objects.
func (s *Store) Len() int { return len(s.objs) }

// NumMeasurements returns the number of measurements added.
func (s *Store) NumMeasurements() int { return s.nMeas }

// Lookup returns the index of the object with key k.
func (s *Store) Lookup(k Key) (int, bool) {
	i, ok := s.index[k]
	return i, ok
}

// Objects returns a snapshot of the store, in order of first appearance.
func (s *Store) Objects() []Object {
	objs := make([]Object, len(s.objs))
	for i := range s.objs {
		objs[i] = s.objs[i].Clone()
	}
	return objs
}
