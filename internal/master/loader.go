package master

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// Options selects what to read from the workbook.
type Options struct {
	Sheet string // empty means the first sheet
}

// Load reads a master spreadsheet. The filename extension picks the reader:
// .xls/.xsl use the BIFF reader, everything else is opened as OOXML.
//
// Unreadable workbooks fail with common.ErrIngestion; a header missing one of
// constants.RequiredMasterColumns fails with common.ErrIntegrity.
func Load(r io.Reader, filename string, opts Options) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, common.IngestionError("read %s: %v", filename, err)
	}
	if len(data) == 0 {
		return nil, common.IngestionError("%s is empty", filename)
	}

	var (
		rows  [][]string
		sheet string
	)
	if _, legacy := constants.LegacyExcelExtensions[constants.NormalizeExt(filepath.Ext(filename))]; legacy {
		rows, sheet, err = readXLS(data, opts.Sheet)
	} else {
		rows, sheet, err = readXLSX(data, opts.Sheet)
	}
	if err != nil {
		return nil, common.IngestionError("open %s: %v", filename, err)
	}
	if len(rows) == 0 {
		return nil, common.IngestionError("worksheet %q in %s is empty", sheet, filename)
	}
	return fromRows(rows, sheet)
}

func readXLSX(data []byte, want string) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if want != "" {
		idx, err := f.GetSheetIndex(want)
		if err != nil || idx == -1 {
			return nil, "", fmt.Errorf("worksheet %q not found", want)
		}
		sheet = want
	}
	if sheet == "" {
		return nil, "", fmt.Errorf("no worksheet found")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", err
	}
	return rows, sheet, nil
}

func readXLS(data []byte, want string) (rows [][]string, sheet string, err error) {
	// the BIFF reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			rows, sheet, err = nil, "", fmt.Errorf("malformed xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, "", err
	}
	if wb.NumSheets() == 0 {
		return nil, "", fmt.Errorf("no worksheet found")
	}

	var ws *xls.WorkSheet
	if want == "" {
		ws = wb.GetSheet(0)
	} else {
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == want {
				ws = s
				break
			}
		}
	}
	if ws == nil {
		return nil, "", fmt.Errorf("worksheet %q not found", want)
	}

	for i := 0; i <= int(ws.MaxRow) && i < constants.MaxSpreadsheetRows; i++ {
		row := ws.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows, ws.Name, nil
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// fromRows indexes the employees below the header row.
func fromRows(rows [][]string, sheet string) (*Dataset, error) {
	header := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		key := normalizeHeader(h)
		if _, seen := header[key]; !seen && key != "" {
			header[key] = i
		}
	}

	var missing []string
	for _, col := range constants.RequiredMasterColumns {
		if _, ok := header[normalizeHeader(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, common.IntegrityError("column(s) %s not found in worksheet %q", quoteAll(missing), sheet)
	}

	codeIdx := header[normalizeHeader(constants.ColEmployeeCode)]
	nameIdx := header[normalizeHeader(constants.ColEmployeeName)]
	unitIdx := header[normalizeHeader(constants.ColOrgUnit)]

	d := newDataset(sheet)
	for _, row := range rows[1:] {
		code := NormalizeCode(cellValue(row, codeIdx))
		if code == "" {
			d.SkippedRows++
			continue
		}
		d.add(Employee{
			Code:    code,
			Name:    cellValue(row, nameIdx),
			OrgUnit: cellValue(row, unitIdx),
		})
	}
	return d, nil
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = "'" + s + "'"
	}
	return strings.Join(q, ", ")
}
