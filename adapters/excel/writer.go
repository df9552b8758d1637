package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"chocobox/app"
	"chocobox/domain/derangement"
)

// SeriesWriter exports a simulation run as a spreadsheet
type SeriesWriter struct {
	format Format
}

// NewSeriesWriter creates a writer for format
func NewSeriesWriter(format Format) *SeriesWriter {
	return &SeriesWriter{format: format}
}

// FileName suggests a download name for run
func (w *SeriesWriter) FileName(run *app.Run) string {
	return fmt.Sprintf("chocolate-box-%d-%d-%s.%s",
		run.Series.ItemCount, run.Series.TrialCount, run.RunID, w.format)
}

// Write encodes run to out
func (w *SeriesWriter) Write(out io.Writer, run *app.Run) error {
	switch w.format {
	case FormatCSV:
		return writeCSV(out, run.Series)
	case FormatXLSX:
		return writeXLSX(out, run)
	default:
		return fmt.Errorf("unsupported export format %q", w.format)
	}
}

func writeCSV(out io.Writer, series *derangement.Series) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(derangement.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range series.Rows {
		record := []string{
			strconv.Itoa(row.Iteration),
			strconv.FormatFloat(row.Ratio, 'g', -1, 64),
			strconv.FormatFloat(row.Reference, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", row.Iteration, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(out io.Writer, run *app.Run) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", seriesSheet); err != nil {
		return fmt.Errorf("rename series sheet: %w", err)
	}

	header := make([]interface{}, 0, 3)
	for _, col := range derangement.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(seriesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range run.Series.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{row.Iteration, row.Ratio, row.Reference}
		if err := f.SetSheetRow(seriesSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row.Iteration, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"run_id", run.RunID.String()},
		{"seed", strconv.FormatUint(run.Seed, 10)},
		{"chocolates", run.Series.ItemCount},
		{"iterations", run.Series.TrialCount},
		{"derangements", run.Summary.Derangements},
		{"final_ratio", run.Summary.FinalRatio},
		{"reference", run.Summary.Reference},
		{"absolute_error", run.Summary.AbsoluteError},
		{"tail_mean", run.Summary.TailMean},
		{"tail_std_dev", run.Summary.TailStdDev},
	}
	for i, values := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write summary %v: %w", values[0], err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
