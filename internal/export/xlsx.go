// Package export writes report views to office and image formats: an XLSX
// workbook of the plotted values and PNG renderings of the charts.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
)

// ErrNoData is returned when a view has nothing to render.
var ErrNoData = errors.New("view has no data")

// Sheet names.
const (
	SheetComparison = "Comparison"
	SheetCrossings  = "Crossings"
	SheetSeason     = "Season"
	SheetAdvertiser = "Advertiser"
)

const defaultSheet = "Sheet1"

// Workbook collects the views written by WriteWorkbook.
type Workbook struct {
	Comparison report.ComparisonView
	Season     report.SeasonView
	Advertiser report.SeasonView
}

// WriteWorkbook writes one sheet per view plus the comparison crossings.
// Null values are left as empty cells.
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	sw := sheetWriter{f: f, header: header}

	err = f.SetSheetName(defaultSheet, SheetComparison)
	if err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for _, step := range []func() error{
		func() error { return sw.comparison(wb.Comparison) },
		func() error { return sw.crossings(wb.Comparison) },
		func() error { return sw.season(SheetSeason, wb.Season) },
		func() error { return sw.season(SheetAdvertiser, wb.Advertiser) },
	} {
		if stepErr := step(); stepErr != nil {
			return stepErr
		}
	}

	err = f.Write(w)
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	return nil
}

type sheetWriter struct {
	f      *excelize.File
	header int
}

func (s sheetWriter) ensure(sheet string) error {
	idx, err := s.f.GetSheetIndex(sheet)
	if err == nil && idx != -1 {
		return nil
	}

	_, err = s.f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("new sheet %s: %w", sheet, err)
	}

	return nil
}

func (s sheetWriter) row(sheet string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	err = s.f.SetSheetRow(sheet, cell, &values)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, n, err)
	}

	return nil
}

func (s sheetWriter) headerRow(sheet string, names ...string) error {
	values := make([]any, len(names))
	for i, n := range names {
		values[i] = n
	}

	err := s.row(sheet, 1, values)
	if err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}

	err = s.f.SetCellStyle(sheet, "A1", last, s.header)
	if err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}

	return nil
}

func cellValue(v dataset.Value) any {
	if !v.Valid {
		return nil
	}

	return v.Float
}

// byWeek indexes a curve's first point per week.
func byWeek(c curve.Curve) map[int]curve.Point {
	out := make(map[int]curve.Point, len(c.Points))

	for _, p := range c.Points {
		if _, dup := out[p.WeekNumber]; !dup {
			out[p.WeekNumber] = p
		}
	}

	return out
}

func (s sheetWriter) comparison(v report.ComparisonView) error {
	sheet := SheetComparison

	err := s.headerRow(sheet, "Week", "Week start", v.UserMetric.Title, v.AdvertiserMetric.Title)
	if err != nil {
		return err
	}

	for i, r := range v.Rows() {
		var start any
		if r.Found {
			start = r.WeekStart.String()
		}

		err = s.row(sheet, i+2, []any{r.Week, start, cellValue(r.User), cellValue(r.Advertiser)})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s sheetWriter) crossings(v report.ComparisonView) error {
	sheet := SheetCrossings

	err := s.ensure(sheet)
	if err != nil {
		return err
	}

	err = s.headerRow(sheet, "After week", "X", "Y", "Index value")
	if err != nil {
		return err
	}

	for i, c := range v.Crossings() {
		err = s.row(sheet, i+2, []any{c.AfterWeek, c.X, c.Y, c.Value})
		if err != nil {
			return err
		}
	}

	return nil
}

func (s sheetWriter) season(sheet string, v report.SeasonView) error {
	err := s.ensure(sheet)
	if err != nil {
		return err
	}

	names := []string{"Week"}
	for _, c := range v.Charts {
		names = append(names, c.Metric.Title+" (past)", c.Metric.Title+" (current)")
	}

	err = s.headerRow(sheet, names...)
	if err != nil {
		return err
	}

	past := make([]map[int]curve.Point, len(v.Charts))
	current := make([]map[int]curve.Point, len(v.Charts))

	for i, c := range v.Charts {
		past[i], current[i] = byWeek(c.Past), byWeek(c.Current)
	}

	for r, week := range v.Weeks {
		values := []any{week}
		for i := range v.Charts {
			values = append(values, cellValue(past[i][week].Value), cellValue(current[i][week].Value))
		}

		err = s.row(sheet, r+2, values)
		if err != nil {
			return err
		}
	}

	return nil
}
