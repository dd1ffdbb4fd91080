// Package reconcile cross-references merged extractions against the master dataset.
package reconcile

import (
	"sort"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// Directory resolves normalized clocks to master employees.
type Directory interface {
	Lookup(clock string) (master.Employee, bool)
}

// Matched is a clock found in the master dataset.
type Matched struct {
	Clock        string
	EmployeeName string
	OrgUnit      string
}

// NotFound is a clock absent from the master dataset. Name is the extracted
// name, or constants.NotFoundName when none was extracted.
type NotFound struct {
	Clock string
	Name  string
}

// ManualName reports whether the extraction supplied a name.
func (n NotFound) ManualName() bool { return n.Name != constants.NotFoundName }

// Group is the matched rows of one organizational unit, in display order.
type Group struct {
	OrgUnit string
	Rows    []Matched
}

// Label is the heading used for the unit.
func (g Group) Label() string { return UnitLabel(g.OrgUnit) }

// SummaryRow is one (label, count) line of the summary table.
type SummaryRow struct {
	Label string
	Count int
}

// Result is the outcome of one reconciliation.
type Result struct {
	Matched  []Matched // sorted by (OrgUnit, EmployeeName)
	NotFound []NotFound
	Groups   []Group
	Summary  []SummaryRow
	Total    int // distinct clocks processed
}

// ManualFound counts not-found records that carry an extracted name.
func (r *Result) ManualFound() int {
	n := 0
	for _, nf := range r.NotFound {
		if nf.ManualName() {
			n++
		}
	}
	return n
}

// UnitLabel maps a blank unit name to constants.UnassignedUnit.
func UnitLabel(unit string) string {
	if unit == "" {
		return constants.UnassignedUnit
	}
	return unit
}

// Reconcile partitions the merged clocks into matched and not-found records
// and computes the summary counts.
func Reconcile(merged *roster.Merged, dir Directory) *Result {
	res := &Result{Total: merged.Len()}

	for _, rec := range merged.Records() {
		if emp, ok := dir.Lookup(rec.Clock); ok {
			res.Matched = append(res.Matched, Matched{
				Clock:        rec.Clock,
				EmployeeName: emp.Name,
				OrgUnit:      emp.OrgUnit,
			})
			continue
		}
		name := rec.Name
		if name == "" {
			name = constants.NotFoundName
		}
		res.NotFound = append(res.NotFound, NotFound{Clock: rec.Clock, Name: name})
	}

	sort.SliceStable(res.Matched, func(i, j int) bool {
		a, b := res.Matched[i], res.Matched[j]
		if a.OrgUnit != b.OrgUnit {
			return a.OrgUnit < b.OrgUnit
		}
		return a.EmployeeName < b.EmployeeName
	})
	res.Groups = group(res.Matched)
	res.Summary = summarize(res)
	return res
}

// group splits sorted matched rows into contiguous per-unit runs.
func group(matched []Matched) []Group {
	var groups []Group
	for _, m := range matched {
		if n := len(groups); n > 0 && groups[n-1].OrgUnit == m.OrgUnit {
			groups[n-1].Rows = append(groups[n-1].Rows, m)
			continue
		}
		groups = append(groups, Group{OrgUnit: m.OrgUnit, Rows: []Matched{m}})
	}
	return groups
}

func summarize(res *Result) []SummaryRow {
	rows := make([]SummaryRow, 0, len(res.Groups)+3)
	for _, g := range res.Groups {
		rows = append(rows, SummaryRow{Label: g.Label(), Count: len(g.Rows)})
	}
	manual := res.ManualFound()
	return append(rows,
		SummaryRow{Label: constants.SummaryManualFound, Count: manual},
		SummaryRow{Label: constants.SummaryNotFound, Count: len(res.NotFound) - manual},
		SummaryRow{Label: constants.SummaryGrandTotal, Count: res.Total},
	)
}
