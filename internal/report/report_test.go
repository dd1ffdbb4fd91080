package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/reconcile"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

func masterXLSX(t *testing.T, header []string, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := r
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var stdHeader = []string{"Employee Code", "Employee Name", "OO Name"}

func sampleResult() *reconcile.Result {
	ds := master.NewDataset(
		master.Employee{Code: "000001", Name: "Zed", OrgUnit: "Stores"},
		master.Employee{Code: "000002", Name: "Amit", OrgUnit: "Stores"},
		master.Employee{Code: "000003", Name: "Meera", OrgUnit: "Finance"},
	)
	merged, _ := roster.Merge([]roster.RawExtraction{
		{Clock: "1"}, {Clock: "2"}, {Clock: "3"}, {Clock: "77", Name: "Walk In"}, {Clock: "78"},
	})
	return reconcile.Reconcile(merged, ds)
}

func TestBuildPlanOrder(t *testing.T) {
	plan := BuildPlan(sampleResult())

	var kinds []string
	for _, b := range plan {
		if b.Kind == BlockPageBreak {
			kinds = append(kinds, "break")
		} else {
			kinds = append(kinds, b.Heading)
		}
	}
	assert.Equal(t, []string{"Finance", "Stores", "break", HeadingNotFound, "break", HeadingSummary}, kinds)

	assert.True(t, plan[0].KeepTogether)
	assert.Equal(t, []string{"Clock No", "Employee Name"}, plan[1].Table.Header)
	assert.Equal(t, [][]string{{"000002", "Amit"}, {"000001", "Zed"}}, plan[1].Table.Rows)
	assert.Equal(t, []float64{120, 200}, plan[1].Table.Widths)

	nf := plan[3].Table
	assert.Equal(t, []string{"Clock No", "Name"}, nf.Header)
	assert.Equal(t, [][]string{{"000077", "Walk In"}, {"000078", constants.NotFoundName}}, nf.Rows)

	sum := plan[5].Table
	assert.True(t, sum.HeaderFill)
	assert.Equal(t, []float64{200, 120}, sum.Widths)
	assert.Equal(t, [][]string{
		{"Finance", "1"}, {"Stores", "2"},
		{"Manual Found", "1"}, {"Not Found", "1"}, {"Grand Total", "5"},
	}, sum.Rows)
}

func TestBuildPlanWithoutMatchesOrMisses(t *testing.T) {
	merged, _ := roster.Merge(nil)
	plan := BuildPlan(reconcile.Reconcile(merged, master.NewDataset()))

	require.Len(t, plan, 2)
	assert.Equal(t, BlockPageBreak, plan[0].Kind)
	assert.Equal(t, HeadingSummary, plan[1].Heading)
}

func TestRenderPDF(t *testing.T) {
	out, err := RenderPDF(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Contains(t, string(out[len(out)-16:]), "%%EOF")
}

func TestRenderPDFManyUnitsAndUnicode(t *testing.T) {
	var emps []master.Employee
	var rows []roster.RawExtraction
	for i := 0; i < 400; i++ {
		code := fmt.Sprintf("%06d", i)
		emps = append(emps, master.Employee{Code: code, Name: fmt.Sprintf("Émile %d", i), OrgUnit: fmt.Sprintf("Unit %02d", i%13)})
		rows = append(rows, roster.RawExtraction{Clock: code})
	}
	merged, _ := roster.Merge(rows)
	out, err := RenderPDF(reconcile.Reconcile(merged, master.NewDataset(emps...)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

// pageStreams returns the content stream of each page of an uncompressed document.
func pageStreams(t *testing.T, doc []byte) []string {
	t.Helper()
	var pages []string
	for _, m := range streamRE.FindAllSubmatch(doc, -1) {
		if bytes.Contains(m[1], []byte(" Tj")) {
			pages = append(pages, string(m[1]))
		}
	}
	return pages
}

var streamRE = regexp.MustCompile(`(?s)stream\n(.*?)\nendstream`)

func TestDrawPlanPlacesBlocksOnPages(t *testing.T) {
	var emps []master.Employee
	var rows []roster.RawExtraction
	add := func(unit, prefix string, n, base int) {
		for i := 0; i < n; i++ {
			code := fmt.Sprintf("%06d", base+i)
			emps = append(emps, master.Employee{Code: code, Name: fmt.Sprintf("emp-%s%02d", prefix, i), OrgUnit: unit})
			rows = append(rows, roster.RawExtraction{Clock: code})
		}
	}
	add("AAAUNIT", "a", 25, 100)
	add("BBBUNIT", "b", 15, 200)
	rows = append(rows, roster.RawExtraction{Clock: "999999", Name: "Walk In"})
	merged, _ := roster.Merge(rows)

	doc, err := drawPlan(BuildPlan(reconcile.Reconcile(merged, master.NewDataset(emps...))), false)
	require.NoError(t, err)

	pages := pageStreams(t, doc)
	require.Len(t, pages, 4)

	// the second unit does not fit below the first, so it moves to a new page whole
	assert.Contains(t, pages[0], "(AAAUNIT)")
	assert.Contains(t, pages[0], "emp-a00")
	assert.Contains(t, pages[0], "emp-a24")
	assert.NotContains(t, pages[0], "BBBUNIT")

	assert.Contains(t, pages[1], "(BBBUNIT)")
	assert.Contains(t, pages[1], "emp-b00")
	assert.Contains(t, pages[1], "emp-b14")
	assert.NotContains(t, pages[1], "emp-a")

	assert.Contains(t, pages[2], "Walk In")
	assert.NotContains(t, pages[2], "SUMMARY")
	assert.NotContains(t, pages[2], "emp-b")

	assert.Contains(t, pages[3], "SUMMARY")
	assert.NotContains(t, pages[3], "Walk In")
}

func TestDrawPlanSmallUnitsSharePage(t *testing.T) {
	doc, err := drawPlan(BuildPlan(sampleResult()), false)
	require.NoError(t, err)

	pages := pageStreams(t, doc)
	require.Len(t, pages, 3)
	assert.Contains(t, pages[0], "(Finance)")
	assert.Contains(t, pages[0], "(Stores)")
	assert.Contains(t, pages[1], "Walk In")
	assert.Contains(t, pages[2], "SUMMARY")
}

func TestRenderXLSX(t *testing.T) {
	out, err := RenderXLSX(sampleResult())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetMatched, SheetNotFound, SheetSummary}, f.GetSheetList())

	matched, err := f.GetRows(SheetMatched)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"OO Name", "Clock No", "Employee Name"},
		{"Finance", "000003", "Meera"},
		{"Stores", "000002", "Amit"},
		{"Stores", "000001", "Zed"},
	}, matched)

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grand Total", "5"}, summary[len(summary)-1])
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(sampleResult(), constants.ReportFormat("docx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestGenerateEndToEnd(t *testing.T) {
	data := masterXLSX(t, stdHeader,
		[]any{"021646", "Sanjay Kumar", "Finance"},
		[]any{"A10", "Priya", "Stores"},
	)
	svc := NewService(master.Options{}, nil)
	rows := []roster.RawExtraction{
		{Clock: "a21646", Name: "Sanjay K"},
		{Clock: "a10", Name: "P"},
	}

	pdf, err := svc.Generate(context.Background(), bytes.NewReader(data), "EmployeeDetails.xlsx", rows, constants.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	res, err := svc.Reconcile(context.Background(), bytes.NewReader(data), "EmployeeDetails.xlsx", rows)
	require.NoError(t, err)
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "Priya", res.Matched[0].EmployeeName)
	require.Len(t, res.NotFound, 1)
	assert.Equal(t, "Sanjay K", res.NotFound[0].Name)
	assert.Equal(t, 1, res.ManualFound())

	xlsx, err := svc.Generate(context.Background(), bytes.NewReader(data), "EmployeeDetails.xlsx", rows, constants.FormatXLSX)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")))
}

func TestGenerateMasterErrors(t *testing.T) {
	svc := NewService(master.Options{}, nil)

	noCode := masterXLSX(t, []string{"Employee Name", "OO Name"}, []any{"A", "B"})
	_, err := svc.Generate(context.Background(), bytes.NewReader(noCode), "m.xlsx", nil, constants.FormatPDF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIntegrity))
	assert.Contains(t, err.Error(), "Employee Code")

	_, err = svc.Generate(context.Background(), strings.NewReader("not a workbook"), "m.xlsx", nil, constants.FormatPDF)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrIngestion))
}

func TestGenerateCanceled(t *testing.T) {
	data := masterXLSX(t, stdHeader, []any{"1", "A", "B"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService(master.Options{}, nil).Generate(ctx, bytes.NewReader(data), "m.xlsx", nil, constants.FormatPDF)
	require.ErrorIs(t, err, context.Canceled)
}
