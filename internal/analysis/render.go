package analysis

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/KaramelBytes/edakit/internal/utils"
)

// Markdown renders the report as plain sections suitable for a terminal or
// a notes file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		name := safeName(c.Name)
		if c.Unit != "" {
			clean, _ := splitUnits(c.Name)
			name = fmt.Sprintf("%s [%s]", clean, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, c.MissingPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	if r.Rows > 0 {
		b.WriteString("\n[MISSING DATA]\n")
		if len(r.MissingColumns) == 0 {
			b.WriteString(fmt.Sprintf("- columns above %.1f%%: none\n", r.ColumnThreshold))
		} else {
			b.WriteString(fmt.Sprintf("- columns above %.1f%%: %s\n", r.ColumnThreshold, strings.Join(r.MissingColumns, ", ")))
		}
		b.WriteString(fmt.Sprintf("- rows at or above %.1f%%: %d of %d\n", r.RowThreshold, len(r.MissingRows), r.Rows))
	}

	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if len(keys) > 6 {
				keys = keys[:6]
			}
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}

	if r.Corr != nil {
		b.WriteString("\n[CORRELATIONS]\n")
		if len(r.Pairs) == 0 {
			b.WriteString(fmt.Sprintf("- no pairs with |r| >= %.2f\n", r.CorrThreshold))
		}
		maxp := 10
		if len(r.Pairs) < maxp {
			maxp = len(r.Pairs)
		}
		for _, p := range r.Pairs[:maxp] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, val := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Table renders the schema and the correlated pairs as boxed tables. The
// output is mirrored to w when it is non-nil.
func (r *Report) Table(w io.Writer) string {
	var b strings.Builder

	schema := table.NewWriter()
	schema.SetTitle(fmt.Sprintf("%s (%d rows)", safeName(r.Name), r.Rows))
	schema.AppendHeader(table.Row{"column", "kind", "non-null", "missing %", "unique", "mean", "std"})
	for _, c := range r.Cols {
		mean, std := "", ""
		if c.Kind == "numeric" {
			mean, std = fmt.Sprintf("%.4g", c.Mean), fmt.Sprintf("%.4g", c.Std)
		}
		schema.AppendRow(table.Row{c.Name, c.Kind, c.NonNull, fmt.Sprintf("%.1f", c.MissingPct), c.Unique, mean, std})
	}
	schema.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	b.WriteString(schema.Render())
	b.WriteString("\n")

	if len(r.Pairs) > 0 {
		pairs := table.NewWriter()
		pairs.SetTitle(fmt.Sprintf("CORRELATED PAIRS |r| >= %.2f", r.CorrThreshold))
		pairs.AppendHeader(table.Row{"a", "b", "r"})
		for _, p := range r.Pairs {
			pairs.AppendRow(table.Row{p.A, p.B, fmt.Sprintf("%.3f", p.R)})
		}
		b.WriteString(pairs.Render())
		b.WriteString("\n")
	}
	out := b.String()
	if w != nil {
		_, _ = io.WriteString(w, out)
	}
	return out
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}
