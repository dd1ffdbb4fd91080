// Package roster normalizes and merges clock-number extractions.
package roster

import (
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/roster-reports/constants"
)

// RawExtraction is one {clock, name} pair as returned by the extraction service.
type RawExtraction struct {
	Clock string `json:"clock"`
	Name  string `json:"name,omitempty"`
}

// Record is a normalized extraction.
type Record struct {
	Clock string `json:"clock"`
	Name  string `json:"name"`
}

// NormalizeClock uppercases a clock number and left-pads it with '0' to
// constants.ClockWidth characters. Longer values are returned unchanged, never truncated.
// A blank clock normalizes to "".
func NormalizeClock(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return ""
	}
	if n := constants.ClockWidth - utf8.RuneCountInString(c); n > 0 {
		c = strings.Repeat("0", n) + c
	}
	return c
}

// IsOverlong reports whether a normalized clock is wider than constants.ClockWidth.
func IsOverlong(clock string) bool {
	return utf8.RuneCountInString(clock) > constants.ClockWidth
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(raw string) string {
	return strings.TrimSpace(raw)
}

// Normalize canonicalizes a raw extraction.
func Normalize(r RawExtraction) Record {
	return Record{Clock: NormalizeClock(r.Clock), Name: NormalizeName(r.Name)}
}
