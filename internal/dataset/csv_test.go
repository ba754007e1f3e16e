package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var csvRows = []string{
	"Group;Concentration (g/L);Temp (°F);Score;LocaleNumber;Category;Note",
	"A;0,5;70;10,0;1.000,0;alpha;first",
	"A;0,6;71;11,0;1.100,0;alpha;second",
	"A;0,55;69;9,5;0.900,0;beta;third",
	"B;0,7;75;10,5;1.050,0;alpha;fourth",
	"B;0,65;74;9,8;0.980,0;beta;fifth",
	"B;0,68;73;10,2;1.020,0;alpha;sixth",
	"A;0,52;68;8,8;0.880,0;gamma;seventh",
	"B;0,75;76;9,7;0.970,0;beta;eighth",
	"A;3,0;95;50,0;5.000,0;alpha;ninth",
	"B;0,66;72;10,1;1.010,0;gamma;tenth",
}

func TestReadCSVLocaleNumbers(t *testing.T) {
	opt := DefaultReadOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	ds, err := ReadCSV(strings.NewReader(strings.Join(csvRows, "\n")), opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Rows() != 10 || ds.Cols() != 7 {
		t.Fatalf("shape = %dx%d, want 10x7", ds.Rows(), ds.Cols())
	}
	if got := ds.CategoricalNames(); !equalStrings(got, []string{"Category", "Group", "Note"}) {
		t.Fatalf("categorical = %#v", got)
	}
	conc, _ := ds.Numeric("Concentration (g/L)")
	if !almostEqual(conc[0], 0.5, 1e-12) || !almostEqual(conc[8], 3.0, 1e-12) {
		t.Fatalf("concentration = %v", conc)
	}
	loc, _ := ds.Numeric("LocaleNumber")
	if loc[1] != 1100 || loc[6] != 880 {
		t.Fatalf("locale = %v", loc)
	}
}

func TestReadCSVMissingTokensAndPadding(t *testing.T) {
	in := "a,b,c\n1,NA,x\n,2,null\n3\n"
	ds, err := ReadCSV(strings.NewReader(in), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Rows() != 3 {
		t.Fatalf("rows = %d, want 3", ds.Rows())
	}
	a, _ := ds.Column("a")
	b, _ := ds.Column("b")
	c, _ := ds.Column("c")
	if a.MissingCount() != 1 || b.MissingCount() != 2 || c.MissingCount() != 2 {
		t.Fatalf("missing a=%d b=%d c=%d", a.MissingCount(), b.MissingCount(), c.MissingCount())
	}
	if a.Kind() != Numeric || b.Kind() != Numeric || c.Kind() != Categorical {
		t.Fatalf("kinds a=%s b=%s c=%s", a.Kind(), b.Kind(), c.Kind())
	}
	vals, _ := ds.Numeric("b")
	if !math.IsNaN(vals[0]) || vals[1] != 2 {
		t.Fatalf("b = %v", vals)
	}
}

func TestReadCSVMixedColumnIsCategorical(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("v\n1\ntwo\n3\n"), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	col := ds.ColumnAt(0)
	if col.Kind() != Categorical {
		t.Fatalf("kind = %s", col.Kind())
	}
	if col.Cells[0].IsNum || col.Cells[0].Str != "1" {
		t.Fatalf("first cell = %#v", col.Cells[0])
	}
}

func TestReadCSVInfinityStaysText(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b\n1,2\ninf,3\n-inf,4\n"), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	a, _ := ds.Column("a")
	if a.Kind() != Categorical || a.Cells[1].Str != "inf" {
		t.Fatalf("a = %s %#v", a.Kind(), a.Cells)
	}
	if got := ds.NumericNames(); !equalStrings(got, []string{"b"}) {
		t.Fatalf("numeric = %v", got)
	}
}

func TestReadCSVHeaderNames(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("x,,x\n1,2,3\n"), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if got := ds.Names(); !equalStrings(got, []string{"x", "column_2", "x.1"}) {
		t.Fatalf("names = %#v", got)
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(""), DefaultReadOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if ds.Rows() != 0 || ds.Cols() != 0 {
		t.Fatalf("shape = %dx%d", ds.Rows(), ds.Cols())
	}
}

func TestReadFileSniffsTSVAndMaxRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv")
	if err := os.WriteFile(path, []byte("a\tb\n1\t2\n3\t4\n5\t6\n"), 0o644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}
	opt := DefaultReadOptions()
	opt.MaxRows = 2
	ds, err := ReadFile(path, opt)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if ds.Cols() != 2 || ds.Rows() != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", ds.Rows(), ds.Cols())
	}
}

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.5", 1234.5, true},
		{"1.234,5", 1234.5, true},
		{"12%", 12, true},
		{"0,25", 0.25, true},
		{"1 000", 1000, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := parseNumeric(c.in, ReadOptions{})
		if ok != c.ok || (ok && !almostEqual(got, c.want, 1e-9)) {
			t.Errorf("parseNumeric(%q) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
