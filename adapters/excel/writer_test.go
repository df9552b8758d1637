package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"chocobox/adapters/rng"
	"chocobox/app"
	"chocobox/internal"
)

func testRun(t *testing.T, chocolates, iterations int) *app.Run {
	t.Helper()
	logger := internal.NewLogger(internal.LogLevelError)
	logger.SetOutput(io.Discard)
	svc := app.NewConvergenceService(rng.NewAdapter(), logger)
	run, err := svc.ComputeConvergenceSeries(context.Background(), app.SeriesRequest{
		Chocolates: chocolates, Iterations: iterations, Seed: 11,
	})
	require.NoError(t, err)
	return run
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatXLSX, "xlsx": FormatXLSX, " CSV ": FormatCSV}
	for input, want := range tests {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWrite_CSV(t *testing.T) {
	run := testRun(t, 6, 25)

	var buf bytes.Buffer
	require.NoError(t, NewSeriesWriter(FormatCSV).Write(&buf, run))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 26)
	assert.Equal(t, []string{"iterations", "ratio", "1/e"}, records[0])

	for i, rec := range records[1:] {
		assert.Equal(t, strconv.Itoa(i+1), rec[0])
		ratio, err := strconv.ParseFloat(rec[1], 64)
		require.NoError(t, err)
		assert.Equal(t, run.Series.Rows[i].Ratio, ratio)
	}
}

func TestWrite_XLSX(t *testing.T) {
	run := testRun(t, 10, 40)

	var buf bytes.Buffer
	require.NoError(t, NewSeriesWriter(FormatXLSX).Write(&buf, run))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(seriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 41)
	assert.Equal(t, []string{"iterations", "ratio", "1/e"}, rows[0])
	assert.Equal(t, "40", rows[40][0])

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"run_id", run.RunID.String()}, summary[0])
	assert.Equal(t, []string{"seed", "11"}, summary[1])
}

func TestFileName(t *testing.T) {
	run := testRun(t, 3, 4)
	name := NewSeriesWriter(FormatCSV).FileName(run)
	assert.True(t, strings.HasPrefix(name, "chocolate-box-3-4-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
}
