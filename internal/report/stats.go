// Public domain.

// Package report produces the end of run statistics, the consistency
// diagnostics and the reduced measurement table.
package report

import (
	"github.com/soniakeys/dstar/internal/catalog"
	"github.com/soniakeys/dstar/internal/compare"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/ingest"
	"github.com/soniakeys/dstar/internal/merge"
)

// Stats are the aggregate counts of one run.  Recoverable anomalies are
// only ever reported here.
type Stats struct {
	Ingest       ingest.Stats
	Objects      int
	Measurements int
	Unresolved   int // measurements with no data
	Calibrated   int
	Quadrant     [dsmeas.QuadUnresolved + 1]int // by status
	Merge        merge.Stats
	MergeMode    merge.Mode
	Catalog      *catalog.Stats // nil without catalogs
	Compare      *compare.Stats // nil without a comparison file
	Surviving    int
	Discrepant   int
}

// Count fills the totals that can be read off the objects.
func (s *Stats) Count(objs []dsmeas.Object) {
	s.Objects = len(objs)
	s.Measurements, s.Unresolved, s.Calibrated, s.Surviving = 0, 0, 0, 0
	s.Quadrant = [len(s.Quadrant)]int{}
	for i := range objs {
		for j := range objs[i].Meas {
			m := &objs[i].Meas[j]
			s.Measurements++
			if !m.Resolved() {
				s.Unresolved++
			}
			if m.Calibrated {
				s.Calibrated++
			}
			if !m.FlaggedOut {
				s.Surviving++
			}
			if q := m.QuadStatus; q >= 0 && int(q) < len(s.Quadrant) {
				s.Quadrant[q]++
			}
		}
	}
}
