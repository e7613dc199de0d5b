// Package report renders association results as text, CSV, markdown or
// HTML.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"zebu/adapters/stats/measures"
	"zebu/domain/association"
	"zebu/domain/core"
)

// Format names an output format
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name; "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", core.NewParameterError("format", fmt.Sprintf("unknown format %q", s))
}

// Write renders result to w in the given format
func Write(w io.Writer, result *association.Result, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, result)
	case FormatCSV:
		return WriteCSV(w, result)
	case FormatMarkdown:
		_, err := w.Write(Markdown(result))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(result))
		return err
	}
	return core.NewParameterError("format", fmt.Sprintf("unknown format %q", format))
}

// SortedCells returns the cells ordered by decreasing local value
func SortedCells(result *association.Result) []association.Cell {
	cells := result.Cells()
	sort.SliceStable(cells, func(i, j int) bool { return cells[i].Local > cells[j].Local })
	return cells
}

// WriteText writes an aligned table preceded by a short summary
func WriteText(w io.Writer, result *association.Result) error {
	for _, line := range summaryLines(result) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line[0], line[1]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(header(result), "\t")+"\t")
	for _, cell := range SortedCells(result) {
		fmt.Fprintln(tw, strings.Join(cellRow(cell, formatShort), "\t")+"\t")
	}
	return tw.Flush()
}

// WriteCSV writes one row per cell at full precision
func WriteCSV(w io.Writer, result *association.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(result)); err != nil {
		return err
	}
	for _, cell := range result.Cells() {
		if err := cw.Write(cellRow(cell, formatFull)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders a report with a parameter table and a cell table
func Markdown(result *association.Result) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# Local association: %s\n\n", result.Measure)

	b.WriteString("| Parameter | Value |\n|---|---|\n")
	for _, line := range summaryLines(result) {
		fmt.Fprintf(&b, "| %s | %s |\n", line[0], escape(line[1]))
	}

	b.WriteString("\n## Cells\n\n")
	cols := header(result)
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(cols)) + "\n")
	for _, cell := range SortedCells(result) {
		row := cellRow(cell, formatShort)
		for i := range row {
			row[i] = escape(row[i])
		}
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.Bytes()
}

// HTML renders the markdown report as a complete page
func HTML(result *association.Result) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(Markdown(result))
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: fmt.Sprintf("Local association: %s", result.Measure),
	})
	return markdown.Render(doc, renderer)
}

func summaryLines(result *association.Result) [][2]string {
	names := make([]string, len(result.Variables))
	for i, v := range result.Variables {
		names[i] = fmt.Sprintf("%s (%d)", v.Name, v.Cardinality())
	}
	lines := [][2]string{
		{"Measure", string(result.Measure)},
		{"Variables", strings.Join(names, ", ")},
		{"Sample size", strconv.Itoa(result.SampleSize)},
		{"Global value", formatShort(result.Global)},
	}

	sig := result.Significance
	if sig == nil {
		return append(lines, [2]string{"Significance", "not computed"})
	}
	method := string(sig.State)
	if sig.State == association.SignificancePermutation {
		method = fmt.Sprintf("permutation (%d permutations, seed %d)", sig.Permutations, sig.Seed)
	}
	lines = append(lines,
		[2]string{"Significance", method},
		[2]string{"P-value adjustment", sig.PAdjust},
		[2]string{"Global p-value", formatShort(sig.GlobalP)},
	)
	if sig.NullGlobal != nil {
		lines = append(lines, [2]string{"Permuted global (mean, 95th percentile)",
			formatShort(sig.NullGlobal.Mean) + ", " + formatShort(sig.NullGlobal.Percentile95)})
	}
	return lines
}

func header(result *association.Result) []string {
	cols := make([]string, 0, len(result.Variables)+4)
	for _, v := range result.Variables {
		cols = append(cols, v.Name)
	}
	cols = append(cols, "observed", "expected", string(result.Measure))
	if result.State() != association.SignificanceNone {
		cols = append(cols, "p_value")
	}
	return cols
}

func cellRow(cell association.Cell, format func(float64) string) []string {
	row := append([]string(nil), cell.Labels...)
	row = append(row, format(cell.Observed), format(cell.Expected), formatLocal(cell.Local, format))
	if cell.PValue != nil {
		row = append(row, format(*cell.PValue))
	}
	return row
}

// formatLocal shows the pmi value of an unobserved combination as -Inf
func formatLocal(v float64, format func(float64) string) string {
	if v <= measures.PMIFloor {
		return "-Inf"
	}
	return format(v)
}

func formatShort(v float64) string {
	if math.Abs(v) < 1e-12 {
		v = 0
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func formatFull(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
