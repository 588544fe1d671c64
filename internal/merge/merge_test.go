// Public domain.

package merge_test

import (
	"errors"
	"math"
	"testing"

	xrand "golang.org/x/exp/rand"

	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/merge"
	"github.com/soniakeys/dstar/internal/quadrant"
)

func m(file string, ep, rho, drho, theta, dtheta float64) dsmeas.Measurement {
	return dsmeas.Measurement{
		File: file, Epoch: ep, Instrument: 20, Filter: "V",
		Rho: dsmeas.Of(rho), DRho: dsmeas.Of(drho),
		Theta: dsmeas.Of(theta), DTheta: dsmeas.Of(dtheta),
	}
}

func unresolved(file string, ep float64) dsmeas.Measurement {
	return dsmeas.Measurement{
		File: file, Epoch: ep, Instrument: 20, Filter: "V",
		Rho: dsmeas.NoData, DRho: dsmeas.NoData,
		Theta: dsmeas.NoData, DTheta: dsmeas.NoData,
	}
}

// STF 2118 AB, two measurements of one night
func TestPairScenario(t *testing.T) {
	r, err := merge.Pair(
		m("a", 2004.692, 14.62, 1.87, 66.1, 0.5),
		m("b", 2004.692, 14.37, 1.89, 66.5, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if rho := r.Rho.Or(0); math.Abs(rho-14.50) > 0.01 {
		t.Fatal("rho", rho)
	}
	if d := r.DRho.Or(0); d < 1.87 || d > 1.89 {
		t.Fatal("drho", d)
	}
	if r.Merged != 1 {
		t.Fatal("merged count", r.Merged)
	}
}

func TestZeroWeight(t *testing.T) {
	_, err := merge.Pair(m("a", 2000, 1, 0, 10, 1), m("b", 2000, 1, 0, 10, 1))
	if !errors.Is(err, merge.ErrZeroWeight) {
		t.Fatal(err)
	}
}

func TestPairAcrossZero(t *testing.T) {
	r, err := merge.Pair(m("a", 2000, 1, .01, 359, 1), m("b", 2000, 1, .01, 3, 1))
	if err != nil {
		t.Fatal(err)
	}
	if th := r.Theta.Or(-1); math.Abs(th-1) > 1e-9 {
		t.Fatal("theta", th)
	}
}

func TestPairFlipsWeakerSide(t *testing.T) {
	a := m("a", 2000, 1, .01, 100, 1)
	a.QuadStatus = dsmeas.QuadConfirmed
	b := m("b", 2000, 1, .01, 282, 1)
	for _, r := range []dsmeas.Measurement{must(merge.Pair(a, b)), must(merge.Pair(b, a))} {
		if th := r.Theta.Or(-1); math.Abs(th-101) > 1e-9 {
			t.Fatal("theta", th)
		}
	}
}

func TestPairUncertainQuadrantIsNoEvidence(t *testing.T) {
	a := m("a", 2000, 1, .01, 100, 2)
	a.Quadrant, a.QuadrantUncertain = 2, true
	b := m("b", 2000, 1, .01, 282, 1)
	// equal evidence, so the larger angle error is flipped
	for _, r := range []dsmeas.Measurement{must(merge.Pair(a, b)), must(merge.Pair(b, a))} {
		if th := r.Theta.Or(-1); math.Abs(th-281.1667) > 1e-3 {
			t.Fatal("theta", th)
		}
	}
}

func must(m dsmeas.Measurement, err error) dsmeas.Measurement {
	if err != nil {
		panic(err)
	}
	return m
}

// merged values stay between the inputs and do not depend on order
func TestPairProperties(t *testing.T) {
	rnd := xrand.New(&xrand.PCGSource{})
	rnd.Seed(3)
	for i := 0; i < 5000; i++ {
		a := m("a", 2000, .1+rnd.Float64()*5, .001+rnd.Float64(),
			rnd.Float64()*360, .3+rnd.Float64()*3)
		th := a.Theta.Or(0) + (rnd.Float64()-.5)*170
		b := m("b", 2000, .1+rnd.Float64()*5, .001+rnd.Float64(),
			math.Mod(th+360, 360), .3+rnd.Float64()*3)
		ab := must(merge.Pair(a, b))
		ba := must(merge.Pair(b, a))
		if math.Abs(ab.Rho.Or(0)-ba.Rho.Or(0)) > 1e-9 ||
			quadrant.Diff(ab.Theta.Or(0), ba.Theta.Or(0)) > 1e-9 {
			t.Fatalf("order dependent: %v %v / %v %v", ab.Rho, ab.Theta, ba.Rho, ba.Theta)
		}
		lo := math.Min(a.Rho.Or(0), b.Rho.Or(0))
		hi := math.Max(a.Rho.Or(0), b.Rho.Or(0))
		if r := ab.Rho.Or(0); r < lo-1e-12 || r > hi+1e-12 {
			t.Fatalf("rho %g outside [%g,%g]", r, lo, hi)
		}
		ta, tb, tm := a.Theta.Or(0), b.Theta.Or(0), ab.Theta.Or(0)
		if d := quadrant.Diff(tm, ta) + quadrant.Diff(tm, tb) - quadrant.Diff(ta, tb); d > 1e-9 {
			t.Fatalf("theta %g outside arc %g..%g", tm, ta, tb)
		}
	}
}

func TestClassify(t *testing.T) {
	for _, c := range []struct {
		file string
		want merge.Acquisition
	}{
		{"090904_ads10279_Vd", merge.AcqDirect},
		{"data/090904_ads10279_Rr.fits", merge.AcqRecorded},
		{"090904_ads10279", merge.AcqUnknown},
		{"090904_ads10279_V", merge.AcqUnknown},
		{"090904_ads10279_Vx", merge.AcqUnknown},
	} {
		if got := merge.Classify(c.file); got != c.want {
			t.Errorf("%s: got %s want %s", c.file, got, c.want)
		}
	}
}

func TestFullMode(t *testing.T) {
	obj := dsmeas.Object{Discoverer: "STF 2118", Companion: "AB", Meas: []dsmeas.Measurement{
		unresolved("u", 2004.692),
		m("a", 2004.692, 1.10, .02, 66, .5),
		m("b", 2004.6925, 1.08, .02, 67, .5),
		m("c", 2005.1, 1.09, .02, 65, .5), // other epoch
		m("d", 2004.692, 1.2, .02, 66, .5),
	}}
	obj.Meas[4].Filter = "R" // other filter
	obj.Meas[2].Quadrant = 1
	o, st, err := merge.DefaultOptions.Object(obj)
	if err != nil {
		t.Fatal(err)
	}
	var live []dsmeas.Measurement
	for _, x := range o.Meas {
		if !x.FlaggedOut {
			live = append(live, x)
		}
	}
	if len(live) != 3 {
		t.Fatalf("%d survivors: %+v", len(live), live)
	}
	if live[0].File != "a" || math.Abs(live[0].Rho.Or(0)-1.09) > 1e-9 {
		t.Fatal("merged root", live[0].File, live[0].Rho)
	}
	if live[0].Quadrant != 1 {
		t.Fatal("quadrant not propagated")
	}
	if st.Merged != 1 || st.NoData != 1 || st.Flagged() != 2 {
		t.Fatalf("stats %+v", st)
	}
	if len(o.Meas) != len(obj.Meas) || obj.Meas[0].FlaggedOut {
		t.Fatal("measurements removed or input modified")
	}
}

func TestFullModeNoEpochDrift(t *testing.T) {
	// b outweighs a, pulling the merged epoch toward c
	obj := dsmeas.Object{Discoverer: "STF 2118", Companion: "AB", Meas: []dsmeas.Measurement{
		m("a", 2004.0, 1.1, 1, 66, 1),
		m("b", 2004.0009, 1.1, .01, 66, .01),
		m("c", 2004.0016, 1.1, .01, 66, .01),
	}}
	o, st, err := merge.DefaultOptions.Object(obj)
	if err != nil {
		t.Fatal(err)
	}
	if st.Merged != 1 || len(o.Surviving()) != 2 {
		t.Fatalf("stats %+v, %d survivors", st, len(o.Surviving()))
	}
	if o.Meas[2].FlaggedOut || o.Meas[2].Merged != 0 {
		t.Fatal("measurement beyond tolerance of the first merged")
	}
}

func TestFullModeDuplicates(t *testing.T) {
	obj := dsmeas.Object{Meas: []dsmeas.Measurement{
		unresolved("u1", 2000), unresolved("u2", 2000),
	}}
	o, st, err := merge.DefaultOptions.Object(obj)
	if err != nil {
		t.Fatal(err)
	}
	if o.Meas[0].FlaggedOut || !o.Meas[1].FlaggedOut || st.Duplicates != 1 {
		t.Fatalf("%+v %+v", o.Meas, st)
	}
}

func TestPaper2(t *testing.T) {
	opt := merge.DefaultOptions
	opt.Mode = merge.ModePaper2

	// close pair: merged into the direct measurement
	obj := dsmeas.Object{Meas: []dsmeas.Measurement{
		m("x_Vr", 2000, 0.20, .01, 30, 1),
		m("x_Vd", 2000, 0.22, .01, 32, 1),
	}}
	o, st, err := opt.Object(obj)
	if err != nil {
		t.Fatal(err)
	}
	if !o.Meas[0].FlaggedOut || o.Meas[1].FlaggedOut || st.Merged != 1 {
		t.Fatalf("close pair %+v", st)
	}
	if r := o.Meas[1].Rho.Or(0); math.Abs(r-0.21) > 1e-9 {
		t.Fatal("rho", r)
	}

	// wide pair: direct kept, recorded discarded
	obj.Meas[0].Rho, obj.Meas[1].Rho = dsmeas.Of(1.5), dsmeas.Of(1.6)
	o, st, _ = opt.Object(obj)
	if !o.Meas[0].FlaggedOut || o.Meas[1].Rho.Or(0) != 1.6 || st.Discarded != 1 {
		t.Fatalf("wide pair %+v", st)
	}

	// direct unresolved: recorded kept
	obj.Meas[1] = unresolved("x_Vd", 2000)
	o, st, _ = opt.Object(obj)
	if o.Meas[0].FlaggedOut || !o.Meas[1].FlaggedOut || st.NoData != 1 {
		t.Fatalf("missing direct %+v", st)
	}

	// unknown acquisition mode never merges
	obj.Meas[1] = m("x_V", 2000, 0.22, .01, 32, 1)
	o, st, _ = opt.Object(obj)
	if o.Meas[0].FlaggedOut || o.Meas[1].FlaggedOut || st.Flagged() != 0 {
		t.Fatalf("unknown mode %+v", st)
	}
}

func TestParseMode(t *testing.T) {
	for s, want := range map[string]merge.Mode{
		"full": merge.ModeFull, "Paper2": merge.ModePaper2, "none": merge.ModeNone,
	} {
		if got, err := merge.ParseMode(s); err != nil || got != want {
			t.Errorf("%s: %v %v", s, got, err)
		}
	}
	if _, err := merge.ParseMode("pairs"); err == nil {
		t.Error("expected error")
	}
}
