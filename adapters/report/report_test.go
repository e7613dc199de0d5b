package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"zebu/adapters/battery"
	"zebu/adapters/stats/engine"
	"zebu/domain/association"
	"zebu/domain/core"
	"zebu/internal/testkit"
	"zebu/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenario(t *testing.T, measure association.Measure) *association.Result {
	t.Helper()
	names, rows := testkit.FromCounts([][]int{{3, 2}, {1, 4}})
	result, err := engine.NewStatsEngine(engine.Options{}).Estimate(testkit.MustDataset(names, rows), measure)
	require.NoError(t, err)
	return result
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, scenario(t, association.MeasureD)))

	out := buf.String()
	assert.Contains(t, out, "Measure: d")
	assert.Contains(t, out, "Variables: A (2), B (2)")
	assert.Contains(t, out, "Significance: not computed")
	assert.NotContains(t, out, "p_value")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	first := strings.Fields(lines[len(lines)-4])
	assert.Equal(t, []string{"a0", "b0", "0.3", "0.2", "0.1"}, first, "highest local value first")
}

func TestWriteCSV_WithSignificance(t *testing.T) {
	result, err := battery.NewAnalyticReferee().Assess(context.Background(), scenario(t, association.MeasureChiSq), ports.SignificanceOptions{PAdjust: "none"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"A", "B", "observed", "expected", "chisq", "p_value"}, records[0])
	assert.Equal(t, []string{"a0", "b0"}, records[1][:2])
	assert.True(t, strings.HasPrefix(records[1][4], "0.7071"))
}

func TestMarkdownAndHTML(t *testing.T) {
	result := scenario(t, association.MeasurePMI)

	md := string(Markdown(result))
	assert.Contains(t, md, "# Local association: pmi")
	assert.Contains(t, md, "| Sample size | 10 |")
	assert.Contains(t, md, "| A | B | observed | expected | pmi |")

	page := string(HTML(result))
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<title>Local association: pmi</title>")
}

func TestFormatLocal_Floor(t *testing.T) {
	names, rows := testkit.FromCounts([][]int{{5, 0}, {2, 3}})
	result, err := engine.NewStatsEngine(engine.Options{}).Estimate(testkit.MustDataset(names, rows), association.MeasurePMI)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, result, FormatText))
	assert.Contains(t, buf.String(), "-Inf")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	_, err = ParseFormat("pdf")
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
}
