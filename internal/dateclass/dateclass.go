// Package dateclass infers a logical capture date for a stored file
// from its name, falling back to the time it was persisted.
package dateclass

import (
	"regexp"
	"time"
)

// pattern pairs a filename regexp with the time layout its capture
// group parses as. Patterns are tried in order; the first one whose
// capture parses to a real calendar date wins.
type pattern struct {
	re     *regexp.Regexp
	layout string
}

// Common camera, screenshot and manual naming schemes. Anchored at the
// start so a date buried mid-name does not accidentally match.
var patterns = []pattern{
	{regexp.MustCompile(`^IMG[_-](\d{8})`), "20060102"},
	{regexp.MustCompile(`^Screenshot[_ -](\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`^(\d{8})[_-]`), "20060102"},
	{regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`), "2006-01-02"},
	{regexp.MustCompile(`^(\d{8})(?:\.|$)`), "20060102"},
}

// Classify returns the calendar date for storedName. Total: any input
// yields a valid date, worst case the date of storageTime.
func Classify(storedName string, storageTime time.Time) time.Time {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(storedName)
		if m == nil {
			continue
		}
		parsed, err := time.ParseInLocation(p.layout, m[1], storageTime.Location())
		if err != nil {
			continue
		}
		// Reject obviously bogus years that still parse (e.g. 00011231).
		if parsed.Year() < 1970 || parsed.Year() > 9999 {
			continue
		}
		return parsed
	}
	return truncateToDate(storageTime)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
