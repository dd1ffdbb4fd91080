// Package report renders a reconciliation result as a PDF or XLSX document.
package report

import (
	"strconv"

	"github.com/joseph-ayodele/roster-reports/internal/reconcile"
)

// Section headings and table headers.
const (
	HeadingNotFound = "Not Found (With Manual Names)"
	HeadingSummary  = "SUMMARY (OO WISE TOTAL)"
)

var (
	matchedHeader  = []string{"Clock No", "Employee Name"}
	notFoundHeader = []string{"Clock No", "Name"}
	summaryHeader  = []string{"Description", "Count"}

	tableWidths   = []float64{120, 200}
	summaryWidths = []float64{200, 120}
)

// BlockKind distinguishes the entries of a layout plan.
type BlockKind int

const (
	// BlockTable is a heading followed by a table and trailing spacing.
	BlockTable BlockKind = iota
	// BlockPageBreak starts a new page.
	BlockPageBreak
)

// Table is a gridded table with a header row.
type Table struct {
	Header     []string
	Rows       [][]string
	Widths     []float64
	LineWidth  float64
	HeaderFill bool
}

// Block is one entry of a layout plan.
type Block struct {
	Kind    BlockKind
	Heading string
	Table   Table
	// KeepTogether moves the whole block to a new page when it does not fit on the current one.
	KeepTogether bool
}

// BuildPlan lays the result out as ordered blocks: one kept-together block per unit,
// then the not-found section (when non-empty) and the summary, each on a new page.
func BuildPlan(res *reconcile.Result) []Block {
	var plan []Block

	for _, g := range res.Groups {
		rows := make([][]string, 0, len(g.Rows))
		for _, m := range g.Rows {
			rows = append(rows, []string{m.Clock, m.EmployeeName})
		}
		plan = append(plan, Block{
			Kind:         BlockTable,
			Heading:      g.Label(),
			Table:        Table{Header: matchedHeader, Rows: rows, Widths: tableWidths, LineWidth: 0.25},
			KeepTogether: true,
		})
	}

	if len(res.NotFound) > 0 {
		rows := make([][]string, 0, len(res.NotFound))
		for _, nf := range res.NotFound {
			rows = append(rows, []string{nf.Clock, nf.Name})
		}
		plan = append(plan,
			Block{Kind: BlockPageBreak},
			Block{
				Kind:    BlockTable,
				Heading: HeadingNotFound,
				Table:   Table{Header: notFoundHeader, Rows: rows, Widths: tableWidths, LineWidth: 0.25},
			},
		)
	}

	rows := make([][]string, 0, len(res.Summary))
	for _, s := range res.Summary {
		rows = append(rows, []string{s.Label, strconv.Itoa(s.Count)})
	}
	plan = append(plan,
		Block{Kind: BlockPageBreak},
		Block{
			Kind:    BlockTable,
			Heading: HeadingSummary,
			Table:   Table{Header: summaryHeader, Rows: rows, Widths: summaryWidths, LineWidth: 0.30, HeaderFill: true},
		},
	)
	return plan
}
