package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_OutDirAndSuppressSamples(t *testing.T) {
	home := isolate(t)

	// Two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	csv := "col1,col2\nA,1\nB,2\nC,3\n"
	writeFile(t, d1, "metrics.csv", csv)
	writeFile(t, d2, "metrics.csv", csv)

	outDir := filepath.Join(home, "summaries")
	runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"), "--out-dir", outDir, "--sample-rows", "0", "--quiet")

	b1 := filepath.Join(outDir, "metrics.summary.md")
	b2 := filepath.Join(outDir, "metrics__2.summary.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing summary: %v", err)
		}
		if strings.Contains(string(body), "[HEAD AND SAMPLE ROWS]") {
			t.Fatalf("expected no sample rows in %s", p)
		}
		if !strings.Contains(string(body), "Rows: 3") {
			t.Fatalf("unexpected summary in %s:\n%s", p, body)
		}
	}
}

func TestAnalyzeBatch_NoMatches(t *testing.T) {
	home := isolate(t)
	if _, err := execCmd("analyze-batch", filepath.Join(home, "*.csv")); err == nil {
		t.Fatalf("expected no input files error")
	}
}

func TestSummaryPathExtensions(t *testing.T) {
	dir := t.TempDir()
	if got := summaryPath(dir, "/x/data.xlsx", "json"); got != filepath.Join(dir, "data.summary.json") {
		t.Fatalf("summaryPath = %s", got)
	}
	if got := summaryPath(dir, "data.csv", "table"); filepath.Base(got) != "data.summary.txt" {
		t.Fatalf("summaryPath = %s", got)
	}
}
