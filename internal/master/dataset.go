// Package master loads the authoritative employee spreadsheet.
package master

import (
	"regexp"

	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

// Employee is one master dataset row.
type Employee struct {
	Code    string // normalized like a clock number
	Name    string
	OrgUnit string
}

// Dataset is an in-memory, read-only index of master employees.
type Dataset struct {
	Sheet       string
	employees   []Employee
	byCode      map[string]int
	Duplicates  int // rows whose code was already indexed
	SkippedRows int // rows with a blank code
}

func newDataset(sheet string) *Dataset {
	return &Dataset{Sheet: sheet, byCode: make(map[string]int)}
}

// add indexes e unless its code is already present; the first row wins.
func (d *Dataset) add(e Employee) {
	if _, dup := d.byCode[e.Code]; dup {
		d.Duplicates++
		return
	}
	d.byCode[e.Code] = len(d.employees)
	d.employees = append(d.employees, e)
}

// Lookup finds the employee for a normalized clock.
func (d *Dataset) Lookup(clock string) (Employee, bool) {
	i, ok := d.byCode[clock]
	if !ok {
		return Employee{}, false
	}
	return d.employees[i], true
}

// Len returns the number of distinct employee codes.
func (d *Dataset) Len() int { return len(d.employees) }

// NewDataset builds a dataset from already-known employees. Codes are normalized.
func NewDataset(employees ...Employee) *Dataset {
	d := newDataset("")
	for _, e := range employees {
		e.Code = NormalizeCode(e.Code)
		if e.Code == "" {
			d.SkippedRows++
			continue
		}
		d.add(e)
	}
	return d
}

// spreadsheet renderings of whole numbers, e.g. "21646.0"
var reWholeFloat = regexp.MustCompile(`^(\d+)\.0+$`)

// NormalizeCode normalizes an employee code cell the same way clock numbers are.
func NormalizeCode(cell string) string {
	if m := reWholeFloat.FindStringSubmatch(cell); m != nil {
		cell = m[1]
	}
	return roster.NormalizeClock(cell)
}
