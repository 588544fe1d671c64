// Public domain.

package dsprog_test

import (
	"bytes"
	"context"
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
	"github.com/soniakeys/dstar/internal/dsprog"
)

const calText = `20mm = 0.0754
sign = 1
theta0 = 89.94
`

const night = `\begin{tabular}{llllllllll}
\hline
16564+6502 = STF 2118 AB & ADS 10279 & & & & & & & & \\
& 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.50 & 0.17 & -23.61 & 0.3 & Q=1 \\
\hline
00014+3937 = HLD 60 & & & & & & & & & \\
& 090904_hld60_Vd & 09/09/2004 & V & 30 & 18.2 & 0.2 & 75 & 0.5 & \\
\end{tabular}
`

type run struct {
	dir            string
	stdout, stderr bytes.Buffer
}

func newRun(t *testing.T) *run {
	return &run{dir: t.TempDir()}
}

func (r *run) file(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(r.dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o644))
	return fn
}

// exec runs args with a configuration file in the run directory, which
// need not exist.
func (r *run) exec(args ...string) error {
	r.stdout.Reset()
	r.stderr.Reset()
	args = append(args, "--config", filepath.Join(r.dir, "dstar.toml"))
	return dsprog.Execute(context.Background(), args, &r.stdout, &r.stderr)
}

func TestVersion(t *testing.T) {
	r := newRun(t)
	require.NoError(t, r.exec("version"))
	assert.Contains(t, r.stdout.String(), "dstar version")
	assert.Contains(t, r.stdout.String(), "Public domain.")
}

func TestConfigInitShow(t *testing.T) {
	r := newRun(t)
	path := filepath.Join(r.dir, "dstar.toml")
	require.NoError(t, r.exec("config", "init", path))
	assert.FileExists(t, path)
	assert.Error(t, r.exec("config", "init", path), "existing file replaced")
	require.NoError(t, r.exec("config", "init", "--force", path))

	require.NoError(t, r.exec("config", "show"))
	assert.Contains(t, r.stdout.String(), "[merge]")
	assert.Regexp(t, `mode = .full.`, r.stdout.String())
}

func TestCalibCheck(t *testing.T) {
	r := newRun(t)
	fn := r.file(t, "cal.txt", calText)
	require.NoError(t, r.exec("calib", "check", fn))
	assert.Contains(t, r.stdout.String(), "20mm")
	assert.Contains(t, r.stdout.String(), "0.0754")

	bad := r.file(t, "bad.txt", "20mm = 1\n20mm = 2\n")
	assert.ErrorIs(t, r.exec("calib", "check", bad), calib.ErrKeyCollision)
}

func TestReducePartial(t *testing.T) {
	r := newRun(t)
	cal := r.file(t, "cal.txt", calText)
	in := r.file(t, "night.tex", night)
	out := filepath.Join(r.dir, "out.tex")

	err := r.exec("reduce", "--calib", cal, "--out", out, in)
	require.ErrorIs(t, err, calib.ErrUnknownInstrument)

	b, rerr := os.ReadFile(out)
	require.NoError(t, rerr)
	s := string(b)
	assert.Contains(t, s, `& 090904_ads10279_Vd & 2004.6`)
	assert.Contains(t, s, `& 66.33 &`)
	assert.NotContains(t, s, "HLD 60", "uncalibrated object written")
	assert.Contains(t, r.stderr.String(), "reduction stopped")
	assert.Contains(t, r.stderr.String(), "run statistics")
}

func TestReduce(t *testing.T) {
	r := newRun(t)
	cal := r.file(t, "cal.txt", calText+"30mm = 0.1131\n")
	in := r.file(t, "night.tex", night)

	require.NoError(t, r.exec("reduce", "--calib", cal, "--mode", "paper2", "--objects", in))
	out := r.stdout.String()
	assert.True(t, strings.HasPrefix(out, `\begin{tabular}`))
	assert.Contains(t, out, "HLD 60")
	assert.Contains(t, r.stderr.String(), "paper2")
	assert.Contains(t, r.stderr.String(), "STF 2118 AB")
}

func TestReduceFlagErrors(t *testing.T) {
	r := newRun(t)
	in := r.file(t, "night.tex", night)
	assert.Error(t, r.exec("reduce", "--mode", "both", in))
	assert.Error(t, r.exec("reduce"))
	assert.Error(t, r.exec("reduce", filepath.Join(r.dir, "missing.tex")))
}

func TestFetchWDS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "16564+6502STF2118 AB")
	}))
	defer srv.Close()

	r := newRun(t)
	path := filepath.Join(r.dir, "wds.txt")
	require.NoError(t, r.exec("fetch-wds", "--url", srv.URL, path))
	assert.FileExists(t, path)
	assert.Contains(t, r.stdout.String(), "wds.txt")

	assert.Error(t, r.exec("fetch-wds", "--url", srv.URL), "no path configured")
}
