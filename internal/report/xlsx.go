package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/reconcile"
)

// Worksheet names of the XLSX rendering.
const (
	SheetMatched  = "Matched"
	SheetNotFound = "Not Found"
	SheetSummary  = "Summary"
)

// RenderXLSX writes the three report sections as worksheets of one workbook.
func RenderXLSX(res *reconcile.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMatched); err != nil {
		return nil, renderErr(err)
	}
	for _, name := range []string{SheetNotFound, SheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, renderErr(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return nil, renderErr(err)
	}

	matched := make([][]any, 0, len(res.Matched))
	for _, m := range res.Matched {
		matched = append(matched, []any{reconcile.UnitLabel(m.OrgUnit), m.Clock, m.EmployeeName})
	}
	notFound := make([][]any, 0, len(res.NotFound))
	for _, nf := range res.NotFound {
		notFound = append(notFound, []any{nf.Clock, nf.Name})
	}
	summary := make([][]any, 0, len(res.Summary))
	for _, s := range res.Summary {
		summary = append(summary, []any{s.Label, s.Count})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]any
		widths []float64
	}{
		{SheetMatched, []string{"OO Name", "Clock No", "Employee Name"}, matched, []float64{28, 14, 32}},
		{SheetNotFound, notFoundHeader, notFound, []float64{14, 32}},
		{SheetSummary, summaryHeader, summary, []float64{32, 12}},
	}
	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.header, s.rows, s.widths, headerStyle); err != nil {
			return nil, renderErr(err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderErr(err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, widths []float64, headerStyle int) error {
	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var err error
			if s, ok := v.(string); ok {
				// clock numbers keep their leading zeros
				err = f.SetCellStr(sheet, cell, s)
			} else {
				err = f.SetCellValue(sheet, cell, v)
			}
			if err != nil {
				return err
			}
		}
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func renderErr(err error) error {
	return common.NewAppError(common.CodeRender, "write xlsx", err)
}
