package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/roster-reports/constants"
	"github.com/joseph-ayodele/roster-reports/internal/master"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

func summaryMap(rows []SummaryRow) map[string]int {
	m := make(map[string]int, len(rows))
	for _, r := range rows {
		m[r.Label] = r.Count
	}
	return m
}

func TestReconcilePaddedCodeDoesNotMatchLetterClock(t *testing.T) {
	dir := master.NewDataset(master.Employee{Code: "021646", Name: "Sanjay Kumar", OrgUnit: "Finance"})
	merged, _ := roster.Merge([]roster.RawExtraction{{Clock: "a21646", Name: "Sanjay K"}})

	res := Reconcile(merged, dir)

	assert.Empty(t, res.Matched)
	require.Len(t, res.NotFound, 1)
	assert.Equal(t, NotFound{Clock: "A21646", Name: "Sanjay K"}, res.NotFound[0])
	sum := summaryMap(res.Summary)
	assert.Equal(t, 1, sum[constants.SummaryManualFound])
	assert.Equal(t, 0, sum[constants.SummaryNotFound])
	assert.Equal(t, 1, sum[constants.SummaryGrandTotal])
}

func TestReconcileExactMatchUsesMasterData(t *testing.T) {
	dir := master.NewDataset(master.Employee{Code: "A21646", Name: "Sanjay Kumar", OrgUnit: "Finance"})
	merged, _ := roster.Merge([]roster.RawExtraction{{Clock: "a21646", Name: "S. K."}})

	res := Reconcile(merged, dir)

	require.Len(t, res.Matched, 1)
	assert.Equal(t, Matched{Clock: "A21646", EmployeeName: "Sanjay Kumar", OrgUnit: "Finance"}, res.Matched[0])
	assert.Empty(t, res.NotFound)
	assert.Equal(t, []SummaryRow{
		{Label: "Finance", Count: 1},
		{Label: constants.SummaryManualFound, Count: 0},
		{Label: constants.SummaryNotFound, Count: 0},
		{Label: constants.SummaryGrandTotal, Count: 1},
	}, res.Summary)
}

func TestReconcileNotFoundWithoutName(t *testing.T) {
	merged, _ := roster.Merge([]roster.RawExtraction{{Clock: "55"}, {Clock: "56", Name: "  "}})

	res := Reconcile(merged, master.NewDataset())

	require.Len(t, res.NotFound, 2)
	for _, nf := range res.NotFound {
		assert.Equal(t, constants.NotFoundName, nf.Name)
		assert.False(t, nf.ManualName())
	}
	sum := summaryMap(res.Summary)
	assert.Equal(t, 2, sum[constants.SummaryNotFound])
	assert.Equal(t, 0, sum[constants.SummaryManualFound])
}

func TestReconcileSortsAndGroups(t *testing.T) {
	dir := master.NewDataset(
		master.Employee{Code: "1", Name: "Zed", OrgUnit: "Stores"},
		master.Employee{Code: "2", Name: "Amit", OrgUnit: "Stores"},
		master.Employee{Code: "3", Name: "Meera", OrgUnit: "Finance"},
		master.Employee{Code: "4", Name: "Bala", OrgUnit: ""},
	)
	merged, _ := roster.Merge([]roster.RawExtraction{
		{Clock: "1"}, {Clock: "2"}, {Clock: "3"}, {Clock: "4"}, {Clock: "9", Name: "Walk In"},
	})

	res := Reconcile(merged, dir)

	var names []string
	for _, m := range res.Matched {
		names = append(names, m.EmployeeName)
	}
	assert.Equal(t, []string{"Bala", "Meera", "Amit", "Zed"}, names)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, constants.UnassignedUnit, res.Groups[0].Label())
	assert.Equal(t, "Finance", res.Groups[1].Label())
	assert.Equal(t, "Stores", res.Groups[2].Label())
	assert.Len(t, res.Groups[2].Rows, 2)

	assert.Equal(t, []SummaryRow{
		{Label: constants.UnassignedUnit, Count: 1},
		{Label: "Finance", Count: 1},
		{Label: "Stores", Count: 2},
		{Label: constants.SummaryManualFound, Count: 1},
		{Label: constants.SummaryNotFound, Count: 0},
		{Label: constants.SummaryGrandTotal, Count: 5},
	}, res.Summary)
}

func TestReconcileUnitNamedLikeFixedLabel(t *testing.T) {
	dir := master.NewDataset(master.Employee{Code: "1", Name: "A", OrgUnit: constants.SummaryGrandTotal})
	merged, _ := roster.Merge([]roster.RawExtraction{{Clock: "1"}, {Clock: "2"}})

	res := Reconcile(merged, dir)

	require.Len(t, res.Summary, 4)
	assert.Equal(t, SummaryRow{Label: constants.SummaryGrandTotal, Count: 1}, res.Summary[0])
	assert.Equal(t, SummaryRow{Label: constants.SummaryGrandTotal, Count: 2}, res.Summary[3])
}

func TestReconcileEmpty(t *testing.T) {
	merged, _ := roster.Merge(nil)
	res := Reconcile(merged, master.NewDataset())

	assert.Empty(t, res.Matched)
	assert.Empty(t, res.NotFound)
	assert.Empty(t, res.Groups)
	assert.Equal(t, []SummaryRow{
		{Label: constants.SummaryManualFound},
		{Label: constants.SummaryNotFound},
		{Label: constants.SummaryGrandTotal},
	}, res.Summary)
}

// Randomized inputs must always satisfy the partition and count invariants.
func TestReconcileInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	units := []string{"Finance", "Stores", "Admin", ""}

	for iter := 0; iter < 50; iter++ {
		var emps []master.Employee
		nEmp, nRows := rng.Intn(40), rng.Intn(80)
		for i := 0; i < nEmp; i++ {
			emps = append(emps, master.Employee{
				Code:    fmt.Sprintf("%d", rng.Intn(60)),
				Name:    fmt.Sprintf("emp-%d", rng.Intn(100)),
				OrgUnit: units[rng.Intn(len(units))],
			})
		}
		dir := master.NewDataset(emps...)

		var rows []roster.RawExtraction
		for i := 0; i < nRows; i++ {
			name := ""
			if rng.Intn(2) == 0 {
				name = fmt.Sprintf("n-%d", i)
			}
			rows = append(rows, roster.RawExtraction{Clock: fmt.Sprintf("%d", rng.Intn(90)), Name: name})
		}
		merged, _ := roster.Merge(rows)

		res := Reconcile(merged, dir)

		seen := map[string]int{}
		for _, m := range res.Matched {
			seen[m.Clock]++
			_, ok := dir.Lookup(m.Clock)
			assert.True(t, ok)
		}
		for _, nf := range res.NotFound {
			seen[nf.Clock]++
			_, ok := dir.Lookup(nf.Clock)
			assert.False(t, ok)
		}
		require.Len(t, seen, merged.Len())
		for clock, n := range seen {
			assert.Equal(t, 1, n, "clock %s", clock)
			_, ok := merged.Name(clock)
			assert.True(t, ok)
		}

		sum := res.Summary
		fixed := sum[len(sum)-3:]
		assert.Equal(t, merged.Len(), fixed[2].Count)
		assert.Equal(t, len(res.NotFound), fixed[0].Count+fixed[1].Count)

		unitTotal := 0
		for _, r := range sum[:len(sum)-3] {
			unitTotal += r.Count
		}
		assert.Equal(t, len(res.Matched), unitTotal)
	}
}
