package analysis

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/edakit/internal/dataset"
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

func loadFixture(t *testing.T) *dataset.Dataset {
	t.Helper()
	opt := dataset.DefaultReadOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	opt.ThousandsSeparator = '.'
	ds, err := dataset.ReadCSV(strings.NewReader(strings.Join(csvRows, "\n")), opt)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return ds
}

func column(t *testing.T, rep *Report, name string) ColumnSummary {
	t.Helper()
	for _, c := range rep.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not in report", name)
	return ColumnSummary{}
}

func TestBuildAndMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.GroupBy = []string{"Group"}
	rep, err := Build("fixture.csv", loadFixture(t), opt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.ID == "" || rep.Created.IsZero() {
		t.Fatalf("report identity not set: %+v", rep)
	}
	if rep.Rows != 10 || len(rep.Cols) != 7 {
		t.Fatalf("shape = %dx%d", rep.Rows, len(rep.Cols))
	}

	score := column(t, rep, "Score")
	if score.Kind != "numeric" {
		t.Fatalf("Score kind = %s", score.Kind)
	}
	if score.Min != 8.8 || score.Max != 50 {
		t.Fatalf("Score range = [%v, %v]", score.Min, score.Max)
	}
	if math.Abs(score.Mean-13.96) > 1e-9 {
		t.Fatalf("Score mean = %v, want 13.96", score.Mean)
	}
	if score.OutliersCount != 1 || score.OutliersMaxAbsZ < 60 {
		t.Fatalf("Score outliers = %d (max |z| %.2f), want 1", score.OutliersCount, score.OutliersMaxAbsZ)
	}

	conc := column(t, rep, "Concentration (g/L)")
	if conc.Unit != "g/L" {
		t.Fatalf("unit = %q, want g/L", conc.Unit)
	}
	cat := column(t, rep, "Category")
	if cat.Kind != "categorical" || cat.Unique != 3 {
		t.Fatalf("Category = %+v", cat)
	}
	if cat.TopValues[0].Value != "alpha" || cat.TopValues[0].Count != 5 {
		t.Fatalf("top value = %+v", cat.TopValues[0])
	}

	if len(rep.MissingColumns) != 0 || len(rep.MissingRows) != 0 {
		t.Fatalf("unexpected missing data: %v %v", rep.MissingColumns, rep.MissingRows)
	}
	if rep.Corr == nil || len(rep.Pairs) == 0 {
		t.Fatalf("expected correlated pairs")
	}
	for _, p := range rep.Pairs {
		if math.Abs(p.R) < opt.CorrThreshold {
			t.Fatalf("pair below threshold: %+v", p)
		}
	}

	if len(rep.Groups) != 2 || rep.Groups[0].Key != "Group=A" || rep.Groups[0].Size != 5 {
		t.Fatalf("groups = %+v", rep.Groups)
	}
	if m := rep.Groups[0].Metrics["Score"]; m.Count != 5 || math.Abs(m.Mean-17.86) > 1e-9 {
		t.Fatalf("group A score = %+v", m)
	}

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: fixture.csv",
		"Rows: 10",
		"[SCHEMA]",
		"- Concentration [g/L]: numeric",
		"outliers: 1 above |z|>3.5",
		"alpha(5)",
		"[MISSING DATA]",
		"columns above 20.0%: none",
		"[GROUP-BY SUMMARY]",
		"- Group=A (n=5)",
		"[CORRELATIONS]",
		"[HEAD AND SAMPLE ROWS]",
		"| Group | Concentration (g/L) |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestBuildMissingData(t *testing.T) {
	ds, err := dataset.New(
		dataset.NumericColumn("a", 1, math.NaN(), 3, math.NaN()),
		dataset.NumericColumn("b", 1, 2, math.NaN(), 4),
		dataset.StringColumn("c", "x", "y", "x", "z"),
	)
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zap.InfoLevel)
	opt := DefaultOptions()
	opt.RowThreshold = 30
	opt.Log = zap.New(core)
	rep, err := Build("gaps", ds, opt)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := strings.Join(rep.MissingColumns, ","); got != "a,b" {
		t.Fatalf("missing columns = %q, want a,b", got)
	}
	if len(rep.MissingRows) != 3 || rep.MissingRows[0] != 1 {
		t.Fatalf("missing rows = %v, want [1 2 3]", rep.MissingRows)
	}
	if a := column(t, rep, "a"); a.MissingPct != 50 || a.NonNull != 2 {
		t.Fatalf("a = %+v", a)
	}
	if logs.FilterMessage("missing columns").Len() != 1 || logs.FilterMessage("missing rows").Len() != 1 {
		t.Fatalf("audit entries = %d", logs.Len())
	}
	if !strings.Contains(rep.Markdown(), "columns above 20.0%: a, b") {
		t.Fatalf("markdown:\n%s", rep.Markdown())
	}
}

func TestBuildWarnsOnConstantColumn(t *testing.T) {
	ds, _ := dataset.New(
		dataset.NumericColumn("x", 1, 2, 3, 4),
		dataset.NumericColumn("flat", 5, 5, 5, 5),
	)
	rep, err := Build("", ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "undefined correlation") {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
	if !strings.Contains(rep.Markdown(), "[NOTES]") {
		t.Fatalf("notes section missing")
	}
}

func TestBuildEdgeCases(t *testing.T) {
	empty, _ := dataset.New()
	if _, err := Build("empty", empty, DefaultOptions()); !errors.Is(err, dataset.ErrDegenerate) {
		t.Fatalf("err = %v, want ErrDegenerate", err)
	}
	noRows, _ := dataset.New(dataset.NumericColumn("x"))
	rep, err := Build("header-only", noRows, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.Cols[0].Kind != "empty" || len(rep.Warnings) != 1 {
		t.Fatalf("report = %+v", rep)
	}

	opt := DefaultOptions()
	opt.GroupBy = []string{"nope"}
	if _, err := Build("fixture", loadFixture(t), opt); err == nil {
		t.Fatalf("expected unknown group-by column error")
	}
}

func TestReportTableAndJSON(t *testing.T) {
	rep, err := Build("fixture.csv", loadFixture(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sb strings.Builder
	out := rep.Table(&sb)
	if out != sb.String() {
		t.Fatalf("mirrored output differs")
	}
	for _, want := range []string{"fixture.csv (10 rows)", "COLUMN", "Concentration (g/L)", "CORRELATED PAIRS"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}

	b, err := rep.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded struct {
		ID      string            `json:"id"`
		Columns []json.RawMessage `json:"columns"`
		Missing []string          `json:"missing_columns"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.ID != rep.ID || len(decoded.Columns) != 7 || decoded.Missing == nil {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestReportJSONWithInfiniteAndZeroStats(t *testing.T) {
	ds, err := dataset.New(
		dataset.NumericColumn("a", 1, math.Inf(1), math.Inf(-1), 2),
		dataset.NumericColumn("zero", 0, 0, 0, 0),
	)
	if err != nil {
		t.Fatal(err)
	}
	rep, err := Build("inf", ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a := column(t, rep, "a")
	if a.Infinite != 2 || a.Min != 1 || a.Max != 2 || a.Mean != 1.5 {
		t.Fatalf("a = %+v", a)
	}
	found := false
	for _, w := range rep.Warnings {
		if strings.Contains(w, "column a has 2 infinite values") {
			found = true
		}
	}
	if !found {
		t.Fatalf("warnings = %v", rep.Warnings)
	}
	b, err := rep.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var decoded struct {
		Columns []map[string]any `json:"columns"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded.Columns[1]["mean"]; !ok {
		t.Fatalf("zero mean dropped from json: %s", b)
	}

	// The same values read from a file stay text and still marshal.
	fromCSV, err := dataset.ReadCSV(strings.NewReader("a,b\n1,2\ninf,3\n-inf,4\n"), dataset.DefaultReadOptions())
	if err != nil {
		t.Fatal(err)
	}
	rep, err = Build("inf.csv", fromCSV, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := rep.JSON(); err != nil {
		t.Fatalf("JSON: %v", err)
	}
}

func TestMedianMADAndQuantile(t *testing.T) {
	med, mad := medianMAD([]float64{1, 2, 3, 4, 100})
	if med != 3 || mad != 1 {
		t.Fatalf("median/mad = %v/%v, want 3/1", med, mad)
	}
	if q := quantile([]float64{0, 10}, 0.25); q != 2.5 {
		t.Fatalf("quantile = %v, want 2.5", q)
	}
	if clean, unit := splitUnits("Mass [mg/L]"); clean != "Mass" || unit != "mg/L" {
		t.Fatalf("splitUnits = %q %q", clean, unit)
	}
}
