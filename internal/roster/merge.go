package roster

// Merged maps normalized clocks to names. Keys keep the position of their
// first occurrence; values hold the last name seen for the clock.
type Merged struct {
	order []string
	names map[string]string
}

// MergeStats describes what Merge did with its input.
type MergeStats struct {
	Input       int
	Dropped     int // blank clock
	Overwritten int // clock already present
	Overlong    int // wider than constants.ClockWidth
}

// Merge deduplicates extractions by normalized clock, last write wins.
func Merge(rows []RawExtraction) (*Merged, MergeStats) {
	m := &Merged{names: make(map[string]string, len(rows))}
	st := MergeStats{Input: len(rows)}
	for _, row := range rows {
		rec := Normalize(row)
		if rec.Clock == "" {
			st.Dropped++
			continue
		}
		if IsOverlong(rec.Clock) {
			st.Overlong++
		}
		if _, seen := m.names[rec.Clock]; seen {
			st.Overwritten++
		} else {
			m.order = append(m.order, rec.Clock)
		}
		m.names[rec.Clock] = rec.Name
	}
	return m, st
}

// Len returns the number of distinct clocks.
func (m *Merged) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Name returns the merged name for a normalized clock.
func (m *Merged) Name(clock string) (string, bool) {
	if m == nil {
		return "", false
	}
	n, ok := m.names[clock]
	return n, ok
}

// Records returns the merged entries in mapping order.
func (m *Merged) Records() []Record {
	if m == nil {
		return nil
	}
	out := make([]Record, 0, len(m.order))
	for _, c := range m.order {
		out = append(out, Record{Clock: c, Name: m.names[c]})
	}
	return out
}
