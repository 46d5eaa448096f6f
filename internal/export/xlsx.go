package export

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	positionsSheet = "POSITIONS"
	breakdownSheet = "BREAKDOWN"
	defaultSheet   = "Sheet1"
)

var rowHeader = []any{
	"Slug", "Chain", "Type", "Address", "Symbol",
	"Total Stake", "Active Stake", "Unstaking", "Value", "Status", "ALL",
}

// XLSXWriter implements SheetWriter by saving an .xlsx workbook to a path.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a writer that saves to path, replacing any existing file.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders the report and saves it.
func (w *XLSXWriter) Write(_ context.Context, report Report) error {
	f, err := render(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", w.path, err)
	}
	return nil
}

// render builds the POSITIONS and BREAKDOWN sheets.
func render(report Report) (*excelize.File, error) {
	f := excelize.NewFile()

	generated := report.GeneratedAt.Format("02.01.2006 15:04")
	sheets := []struct {
		name string
		rows []PositionRow
	}{
		{positionsSheet, report.Positions},
		{breakdownSheet, report.Breakdown},
	}

	for i, sheet := range sheets {
		idx, err := f.NewSheet(sheet.name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating sheet %s: %w", sheet.name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, sheet.name, generated, sheet.rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	return f, nil
}

// writeSheet writes a generated-at line, the header and one row per position.
func writeSheet(f *excelize.File, sheet, generated string, rows []PositionRow) error {
	data := buildSheetRows(generated, rows)
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("resolving cell for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 36); err != nil {
		return fmt.Errorf("sizing %s columns: %w", sheet, err)
	}
	return nil
}

// buildSheetRows lays out a sheet: generated-at line, header, data rows.
// Columns: Slug | Chain | Type | Address | Symbol | Total Stake | Active Stake | Unstaking | Value | Status | ALL
func buildSheetRows(generated string, rows []PositionRow) [][]any {
	data := make([][]any, 0, len(rows)+2)
	data = append(data, []any{"Generated", generated})
	data = append(data, rowHeader)

	for _, r := range rows {
		compound := 0
		if r.IsCompound {
			compound = 1
		}
		data = append(data, []any{
			r.Slug, r.Chain, string(r.Type), r.Address, r.Symbol,
			toFloat(r.TotalStake), toFloat(r.ActiveStake), toFloat(r.UnstakeBalance),
			toFloat(r.Value), string(r.Status), compound,
		})
	}
	return data
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
