// Public domain.

package dsmeas

import "strconv"

// State says what a Value holds.
type State int8

const (
	None       State = iota // not given
	Measured                // a number
	Unresolved              // observed, but the pair was not resolved
	Absent                  // the object or epoch is missing from a comparison file
)

func (s State) String() string {
	switch s {
	case None:
		return "none"
	case Measured:
		return "measured"
	case Unresolved:
		return "unresolved"
	case Absent:
		return "absent"
	}
	return "invalid"
}

// Value is a numeric field that may instead carry one of the no-value
// states.  The zero Value is None.
type Value struct {
	v float64
	s State
}

// Special values.
var (
	NoData  = Value{s: Unresolved}
	Missing = Value{s: Absent}
)

// Of returns a measured value.
func Of(v float64) Value { return Value{v: v, s: Measured} }

// State returns the state of v.
func (v Value) State() State { return v.s }

// Known reports whether v holds a number.
func (v Value) Known() bool { return v.s == Measured }

// Get returns the number and whether there is one.
func (v Value) Get() (float64, bool) { return v.v, v.s == Measured }

// Or returns the number, or def when there is none.
func (v Value) Or(def float64) float64 {
	if v.s == Measured {
		return v.v
	}
	return def
}

// Map applies f to a measured value.  Other states pass through.
func (v Value) Map(f func(float64) float64) Value {
	if v.s != Measured {
		return v
	}
	return Of(f(v.v))
}

func (v Value) String() string {
	if v.s == Measured {
		return strconv.FormatFloat(v.v, 'f', -1, 64)
	}
	return v.s.String()
}
