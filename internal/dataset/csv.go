package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadOptions controls how delimited text becomes a Dataset.
type ReadOptions struct {
	// Delimiter for CSV. If 0, '\t' for .tsv paths and ',' otherwise.
	Delimiter rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// MissingTokens are the cell values treated as missing (case-insensitive,
	// after trimming). Empty cells are always missing.
	MissingTokens []string
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, auto-detect common separators (',' '.' space)
	// Sheet selects an .xlsx worksheet by name; SheetIndex (1-based) is used
	// when Sheet is empty.
	Sheet      string
	SheetIndex int
}

// DefaultMissingTokens mirrors the null markers pandas recognises by default.
var DefaultMissingTokens = []string{"NA", "N/A", "NaN", "null", "None", "nan", "<NA>"}

// DefaultReadOptions returns reasonable defaults for dataset loading.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{MissingTokens: DefaultMissingTokens}
}

// ReadFile loads a .csv, .tsv or .xlsx file based on its extension.
func ReadFile(path string, opt ReadOptions) (*Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSXFile(path, opt.Sheet, opt.SheetIndex, opt)
	}
	return ReadCSVFile(path, opt)
}

// ReadCSVFile opens path and reads it with ReadCSV, sniffing the delimiter
// from the extension when opt.Delimiter is unset.
func ReadCSVFile(path string, opt ReadOptions) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return ReadCSV(f, opt)
}

// ReadCSV reads a header row followed by data rows. Short rows are padded
// with missing cells; long rows are truncated to the header width.
func ReadCSV(r io.Reader, opt ReadOptions) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = opt.Delimiter
	if cr.Comma == 0 {
		cr.Comma = ','
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New()
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	b := newBuilder(header, opt)
	for {
		if opt.MaxRows > 0 && b.rows >= opt.MaxRows {
			break
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", b.rows+1, err)
		}
		b.add(rec)
	}
	return b.build()
}

// builder accumulates string records into typed columns.
type builder struct {
	names   []string
	cells   [][]Cell
	rows    int
	opt     ReadOptions
	missing map[string]struct{}
}

func newBuilder(header []string, opt ReadOptions) *builder {
	b := &builder{opt: opt, missing: map[string]struct{}{}}
	for _, t := range opt.MissingTokens {
		b.missing[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	seen := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			seen[name] = 1
		}
		b.names = append(b.names, name)
	}
	b.cells = make([][]Cell, len(b.names))
	return b
}

func (b *builder) add(rec []string) {
	b.rows++
	for j := range b.names {
		v := ""
		if j < len(rec) {
			v = strings.TrimSpace(rec[j])
		}
		b.cells[j] = append(b.cells[j], b.parse(v))
	}
}

func (b *builder) parse(v string) Cell {
	if v == "" {
		return Null()
	}
	if _, ok := b.missing[strings.ToLower(v)]; ok {
		return Null()
	}
	// Non-finite literals such as "inf" stay text.
	if x, ok := parseNumeric(v, b.opt); ok && !math.IsNaN(x) && !math.IsInf(x, 0) {
		return Cell{IsNum: true, Num: x, Str: v}
	}
	return Str(v)
}

// build demotes mixed columns to categorical so every column has one Kind
// and categorical cells keep their raw text.
func (b *builder) build() (*Dataset, error) {
	cols := make([]Column, len(b.names))
	for j, name := range b.names {
		col := Column{Name: name, Cells: b.cells[j]}
		if col.Kind() == Categorical {
			for i := range col.Cells {
				col.Cells[i].IsNum = false
			}
		}
		cols[j] = col
	}
	return New(cols...)
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	// Default to comma; the extension is the only hint used so the file is read once.
	return ','
}

func parseNumeric(s string, opt ReadOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	// Decide decimal separator
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		// auto detect
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	// Remove thousands separators (common: ',', '.', space) if they differ from decimal
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
