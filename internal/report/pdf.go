package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/reconcile"
)

// Page geometry in points.
const (
	margin        = 72.0
	headingHeight = 22.0
	rowHeight     = 18.0
	spacerHeight  = 12.0
	fontFamily    = "Helvetica"
)

// lightgrey
var headerFill = [3]int{211, 211, 211}

// RenderPDF draws the layout plan of res onto A4 pages and returns the finished document.
func RenderPDF(res *reconcile.Result) ([]byte, error) {
	return drawPlan(BuildPlan(res), true)
}

func drawPlan(plan []Block, compress bool) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AliasNbPages("")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin + 20)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	_, pageHeight := pdf.GetPageSize()
	bottom := pageHeight - margin
	usable := bottom - margin
	pageHasContent := false

	for _, b := range plan {
		switch b.Kind {
		case BlockPageBreak:
			if pageHasContent {
				pdf.AddPage()
				pageHasContent = false
			}
		case BlockTable:
			need := blockHeight(b)
			if b.KeepTogether && pageHasContent && need <= usable && pdf.GetY()+need > bottom {
				pdf.AddPage()
			}
			drawBlock(pdf, tr, b)
			pageHasContent = true
		}
		if err := pdf.Error(); err != nil {
			return nil, common.NewAppError(common.CodeRender, "draw pdf", err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, common.NewAppError(common.CodeRender, "write pdf", err)
	}
	return buf.Bytes(), nil
}

func blockHeight(b Block) float64 {
	return headingHeight + float64(len(b.Table.Rows)+1)*rowHeight + spacerHeight
}

func drawBlock(pdf *gofpdf.Fpdf, tr func(string) string, b Block) {
	pdf.SetFont(fontFamily, "B", 11)
	pdf.CellFormat(0, headingHeight, tr(b.Heading), "", 1, "L", false, 0, "")

	t := b.Table
	pdf.SetLineWidth(t.LineWidth)
	pdf.SetDrawColor(0, 0, 0)
	if t.HeaderFill {
		pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
	}

	pdf.SetFont(fontFamily, "B", 10)
	drawRow(pdf, tr, t.Header, t.Widths, t.HeaderFill)
	pdf.SetFont(fontFamily, "", 10)
	for _, row := range t.Rows {
		drawRow(pdf, tr, row, t.Widths, false)
	}
	pdf.Ln(spacerHeight)
}

func drawRow(pdf *gofpdf.Fpdf, tr func(string) string, cells []string, widths []float64, fill bool) {
	for i, w := range widths {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		pdf.CellFormat(w, rowHeight, tr(text), "1", 0, "L", fill, 0, "")
	}
	pdf.Ln(-1)
}
