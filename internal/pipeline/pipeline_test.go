// Public domain.

package pipeline_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soniakeys/dstar/internal/calib"
	"github.com/soniakeys/dstar/internal/config"
	"github.com/soniakeys/dstar/internal/dsmeas"
	"github.com/soniakeys/dstar/internal/pipeline"
)

const calText = `# 20 cm refractor
20mm = 0.0754
sign = 1
theta0 = 89.94
`

const head = `\begin{tabular}{llllllllll}
\hline
16564+6502 = STF 2118 AB & ADS 10279 & & & & & & & & \\
`

const direct = `& 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.50 & 0.17 & -23.61 & 0.3 & \\
`

const recorded = `& 090904_ads10279_Vr & 09/09/2004 & V & 20 & 14.52 & 0.17 & -23.41 & 0.3 & \\
`

const tail = `\end{tabular}
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

func wdsLine(desig, disc, comp string, last int, th, rho float64) string {
	l := []byte(strings.Repeat(" ", 70))
	copy(l[0:], desig)
	copy(l[10:], disc)
	copy(l[17:], comp)
	copy(l[28:], fmt.Sprint(last))
	copy(l[42:], fmt.Sprintf("%3.0f", th))
	copy(l[52:], fmt.Sprintf("%5.1f", rho))
	return string(l)
}

var wdsText = wdsLine("16564+6502", "STF2118", "AB", 2018, 67, 1.1) + "\n"

// options returns run options built from the default configuration with
// the calibration table in calText.
func options(t *testing.T) pipeline.Options {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Calibration = write(t, "cal.txt", calText)
	opt, err := pipeline.FromConfig(&cfg, nil)
	require.NoError(t, err)
	return opt
}

func TestRunCalibrates(t *testing.T) {
	in := write(t, "night.tex", head+direct+tail)
	res, err := pipeline.Run([]string{in}, options(t), nil)
	require.NoError(t, err)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "sort", res.Stage)

	ms := res.Objects[0].Surviving()
	require.Len(t, ms, 1)
	assert.InDelta(t, 1.0935, ms[0].Rho.Or(0), .001)
	assert.InDelta(t, 66.33, ms[0].Theta.Or(0), 1e-9)
	assert.True(t, ms[0].Calibrated)
	assert.Equal(t, dsmeas.QuadUnresolved, ms[0].QuadStatus)
	assert.Equal(t, 1, res.Stats.Calibrated)
	assert.Equal(t, 1, res.Stats.Ingest.MeasurementRows)
}

func TestRunMerges(t *testing.T) {
	in := write(t, "night.tex", head+direct+recorded+tail)
	res, err := pipeline.Run([]string{in}, options(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Merge.Merged)
	assert.Equal(t, 1, res.Stats.Surviving)
	ms := res.Objects[0].Surviving()
	require.Len(t, ms, 1)
	assert.Equal(t, 1, ms[0].Merged)
	assert.InDelta(t, 66.43, ms[0].Theta.Or(0), .01)
}

func TestRunPartial(t *testing.T) {
	in := write(t, "night.tex", head+direct+
		"00014+3937 HLD 60 & & & & & & & & & \\\\\n"+
		"& 090904_hld60_Vd & 09/09/2004 & V & 30 & 18.2 & 0.2 & 75 & 0.5 & \\\\\n"+
		tail)
	opt := options(t)
	res, err := pipeline.Run([]string{in}, opt, nil)
	require.ErrorIs(t, err, calib.ErrUnknownInstrument)
	require.NotNil(t, res)
	assert.Equal(t, "ingest", res.Stage)
	require.Len(t, res.Objects, 1)
	assert.Equal(t, "STF 2118 AB", res.Objects[0].Name())

	res.Finish(opt)
	assert.Equal(t, 1, res.Stats.Objects)
	assert.Equal(t, 1, res.Stats.Calibrated)
}

func TestRunCatalogs(t *testing.T) {
	// position angle stated on the wrong side of the ambiguity
	in := write(t, "night.tex", head+
		`& 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.50 & 0.17 & 156.39 & 0.3 & \\`+"\n"+
		tail)
	cfg := config.Default()
	cfg.Input.Calibration = write(t, "cal.txt", calText)
	cfg.Catalog.WDSPath = write(t, "wds.txt", wdsText)
	opt, err := pipeline.FromConfig(&cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, opt.Catalogs)

	res, err := pipeline.Run([]string{in}, opt, nil)
	require.NoError(t, err)
	assert.Equal(t, "enrich", res.Stage)
	o := res.Objects[0]
	assert.True(t, o.Catalog.WDSFound)
	assert.Equal(t, "pair", o.Catalog.WDSMatch)
	m := o.Surviving()[0]
	assert.Equal(t, dsmeas.QuadCatalogFlip, m.QuadStatus)
	assert.InDelta(t, 66.33, m.Theta.Or(0), 1e-9)
	require.NotNil(t, res.Stats.Catalog)
	assert.Equal(t, 1, res.Stats.Catalog.ByPair)
	assert.Empty(t, res.Discrepancies)
}

func TestCatalogsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wdsText)
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Catalog.WDSPath = filepath.Join(t.TempDir(), "wds.txt")
	cfg.Catalog.WDSURL = srv.URL
	cats, err := pipeline.Catalogs(&cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, cats.WDS)
	assert.Len(t, cats.WDS.Records, 1)
	assert.FileExists(t, cfg.Catalog.WDSPath)
}

func TestCatalogsNone(t *testing.T) {
	cfg := config.Default()
	cats, err := pipeline.Catalogs(&cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, cats)
}

func TestRunCompare(t *testing.T) {
	in := write(t, "night.tex", head+direct+tail)
	other := write(t, "other.tex", head+
		`& 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.00 & 0.17 & -23.61 & 0.3 & \\`+"\n"+
		tail)
	opt := options(t)
	opt.Compare = []string{other}
	res, err := pipeline.Run([]string{in}, opt, nil)
	require.NoError(t, err)
	assert.Equal(t, "compare", res.Stage)
	require.NotNil(t, res.Stats.Compare)
	assert.Equal(t, 1, res.Stats.Compare.Matched)
	s := res.Objects[0].Surviving()[0].Comparison
	require.NotNil(t, s)
	assert.InDelta(t, 14.00*0.0754, s.Rho.Or(0), 1e-9)
}

func TestFromConfigErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Merge.Mode = "both"
	_, err := pipeline.FromConfig(&cfg, nil)
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Input.Calibration = filepath.Join(t.TempDir(), "missing.txt")
	_, err = pipeline.FromConfig(&cfg, nil)
	assert.Error(t, err)
}

func TestRunNoInput(t *testing.T) {
	res, err := pipeline.Run(nil, pipeline.Options{}, nil)
	assert.ErrorIs(t, err, pipeline.ErrNoInput)
	assert.Nil(t, res)
}
