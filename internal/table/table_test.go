// Public domain.

package table_test

import (
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/soniakeys/dstar/internal/table"
)

func scanAll(t *testing.T, src string, opt table.Options) []table.Item {
	t.Helper()
	s := table.NewScanner(strings.NewReader(src), opt)
	var items []table.Item
	for {
		it, err := s.Next()
		if err == io.EOF {
			return items
		}
		if err != nil {
			t.Fatal(err)
		}
		items = append(items, it)
	}
}

const sample = `% visible comment
%% silent annotation
\hline
16564+6502 = STF 2118 AB & ADS 10279 & & & & & & & & WY=2009 WT=67 WR=1.1 \\
& 090904_ads10279_Vd & 09/09/2004 & V & 20 & 14.50 & 0.17 & -23.61 & 0.3 &
 Q=2 \\
& 090904_ads10279_Vr & 09/09/2004 & V & 20 & \nodata & \nodata & \nodata & \nodata & \\ % trailing
`

func TestScanRows(t *testing.T) {
	items := scanAll(t, sample, table.Options{})
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3: %+v", len(items), items)
	}
	for _, it := range items {
		if it.Kind != table.KindRow || it.Unterminated {
			t.Fatalf("unexpected item %+v", it)
		}
	}
	if items[1].Line != 5 {
		t.Fatal("continuation row starts on line", items[1].Line)
	}
	r := items[1].Row()
	if r.NumFields() != 10 {
		t.Fatal("fields:", r.NumFields())
	}
	if q, _ := r.Field(10); q != "Q=2" {
		t.Fatalf("notes field %q", q)
	}
	if strings.Contains(items[2].Text, "trailing") {
		t.Fatal("comment not stripped:", items[2].Text)
	}
}

func TestScanComments(t *testing.T) {
	items := scanAll(t, sample, table.Options{IncludeComments: true})
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if items[0].Kind != table.KindComment || items[0].Text != "visible comment" {
		t.Fatalf("first item %+v", items[0])
	}
}

func TestScanHeader(t *testing.T) {
	src := `\documentclass{article}
\begin{document}
\begin{tabular}{lllll}
& a & b \\
\end{tabular}
& c & d \\
`
	items := scanAll(t, src, table.Options{})
	var rows, bp int
	for _, it := range items {
		switch it.Kind {
		case table.KindRow:
			rows++
		case table.KindBoilerplate:
			bp++
		}
	}
	if rows != 1 || bp != 5 {
		t.Fatalf("rows %d boilerplate %d", rows, bp)
	}
}

func TestScanUnterminated(t *testing.T) {
	src := "& a & b\n& c & d\n& e & f \\\\\n"
	items := scanAll(t, src, table.Options{})
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	if !items[0].Unterminated || items[1].Unterminated {
		t.Fatalf("termination flags %+v", items)
	}
	// eof inside an open row
	items = scanAll(t, "& x & y", table.Options{})
	if len(items) != 1 || !items[0].Unterminated {
		t.Fatalf("eof row %+v", items)
	}
}

func TestScanTruncate(t *testing.T) {
	long := "& " + strings.Repeat("x", 100) + " \\\\\n& ok \\\\\n"
	s := table.NewScanner(strings.NewReader(long), table.Options{MaxLine: 40})
	it, err := s.Next()
	if err != nil {
		t.Fatal(err)
	}
	// the cut line lost its terminator, so the next line closes the row
	if n := strings.Count(it.Text, "x"); n != 38 {
		t.Fatalf("%d x's survived truncation: %q", n, it.Text)
	}
	if f, _ := it.Row().Field(3); f != "ok" {
		t.Fatalf("continuation field %q", f)
	}
	if s.Truncated != 1 {
		t.Fatal("truncated count", s.Truncated)
	}
}

func TestColumns(t *testing.T) {
	r := table.NewRow(1, ` A \& B & 14.50 & \nodata & x1 & `)
	if f, _ := r.Field(1); f != "A & B" {
		t.Fatalf("escaped separator: %q", f)
	}
	if v, err := r.Float(2); err != nil || v != 14.5 {
		t.Fatal(v, err)
	}
	if _, err := r.Float(3); !errors.Is(err, table.ErrNoData) {
		t.Fatal("no data:", err)
	}
	if _, err := r.Float(4); !errors.Is(err, table.ErrParse) {
		t.Fatal("parse:", err)
	}
	if f, err := r.Field(5); err != nil || f != "" {
		t.Fatal("empty field:", f, err)
	}
	if _, err := r.Field(6); !errors.Is(err, table.ErrColumnNotFound) {
		t.Fatal("not found:", err)
	}
}

func TestEpoch(t *testing.T) {
	for _, c := range []struct {
		s    string
		cal  table.Calendar
		want float64
	}{
		{"09/09/2004", table.DefaultCalendar, 2004.69246},
		{"09/09/2004", table.Calendar{Julian: true, Hour: 22}, 2004.69108},
		{"2004.6873", table.DefaultCalendar, 2004.6873},
	} {
		got, err := c.cal.Parse(c.s)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-c.want) > 1e-5 {
			t.Errorf("%s: got %.6f want %.6f", c.s, got, c.want)
		}
	}
	for _, bad := range []string{"2004", "31/13/2004", "x/y/z", "1/2"} {
		if _, err := table.DefaultCalendar.Parse(bad); !errors.Is(err, table.ErrParse) {
			t.Errorf("%q: expected parse failure, got %v", bad, err)
		}
	}
}

func TestScanHeaderlessBegin(t *testing.T) {
	src := "\\begin{tabular}{ll}\n& a & b \\\\\n\\end{tabular}\n"
	items := scanAll(t, src, table.Options{})
	if len(items) != 3 || items[0].Kind != table.KindBoilerplate ||
		items[1].Kind != table.KindRow || items[1].Text != "& a & b " {
		t.Fatalf("%+v", items)
	}
}
