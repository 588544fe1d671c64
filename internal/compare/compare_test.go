// Public domain.

package compare_test

import (
	"math"
	"testing"

	"github.com/soniakeys/dstar/internal/compare"
	"github.com/soniakeys/dstar/internal/dsmeas"
)

func meas(ep, rho, theta float64) dsmeas.Measurement {
	return dsmeas.Measurement{
		Epoch: ep, Filter: "V",
		Rho: dsmeas.Of(rho), DRho: dsmeas.Of(.01),
		Theta: dsmeas.Of(theta), DTheta: dsmeas.Of(.5),
	}
}

func TestAttach(t *testing.T) {
	objs := []dsmeas.Object{
		{Discoverer: "STF 2118", Companion: "AB", Meas: []dsmeas.Measurement{
			meas(2004.692, 1.10, 359),
			meas(2005.3, 1.12, 68),
			{Epoch: 2006, Filter: "V", Rho: dsmeas.NoData, DRho: dsmeas.NoData,
				Theta: dsmeas.NoData, DTheta: dsmeas.NoData},
		}},
		{Discoverer: "HLD 60", Meas: []dsmeas.Measurement{meas(2004.7, 1.4, 165)}},
	}
	objs[0].Meas[1].FlaggedOut = true
	other := []dsmeas.Object{
		{Discoverer: "STF2118", Meas: []dsmeas.Measurement{
			meas(2004.6925, 1.00, 1),
			meas(2006, 1.0, 66),
		}},
	}
	out, st := compare.Attach(objs, other, 0.001)

	s := out[0].Meas[0].Comparison
	if s == nil || s.Rho.Or(0) != 1.00 {
		t.Fatalf("shadow %+v", s)
	}
	if out[0].Meas[1].Comparison != nil {
		t.Fatal("flagged measurement compared")
	}
	if s := out[0].Meas[2].Comparison; s == nil || compare.IsAbsent(s) {
		t.Fatal("unresolved measurement should still match by epoch")
	}
	if !compare.IsAbsent(out[1].Meas[0].Comparison) {
		t.Fatal("missing object not marked absent")
	}
	if objs[0].Meas[0].Comparison != nil {
		t.Fatal("input modified")
	}
	if st.Matched != 2 || st.Unresolved != 1 || st.AbsentObject != 1 || st.AbsentEpoch != 0 {
		t.Fatalf("stats %+v", st)
	}
	if math.Abs(st.MeanDRho-0.10) > 1e-9 || math.Abs(st.MeanDTheta+2) > 1e-9 {
		t.Fatalf("differences %+v", st)
	}

	// the shadow is a copy
	other[0].Meas[0].Rho = dsmeas.Of(5)
	if out[0].Meas[0].Comparison.Rho.Or(0) != 1.00 {
		t.Fatal("shadow shares storage with the comparison")
	}
}

func TestAbsentIsNotNoData(t *testing.T) {
	a := compare.Absent()
	if a.Rho.State() == dsmeas.NoData.State() {
		t.Fatal("absent marker conflated with no data")
	}
	nd := dsmeas.Measurement{Rho: dsmeas.NoData}
	if compare.IsAbsent(&nd) {
		t.Fatal("no data taken as absent")
	}
}

func TestDiffSign(t *testing.T) {
	a, b := meas(2000, 1, 10), meas(2000, 1, 350)
	if _, dt := compare.Diff(&a, &b); dt != 20 {
		t.Fatal(dt)
	}
	if _, dt := compare.Diff(&b, &a); dt != -20 {
		t.Fatal(dt)
	}
}
