package collector

import (
	"regexp"
	"strconv"
	"strings"

	"fashion-etl/internal/record"
)

// fieldMatcher extracts one field from the descriptive lines of a card. A line
// belongs to the first matcher whose label it contains; parse receives the
// first capture group of pattern.
type fieldMatcher struct {
	label   string
	pattern *regexp.Regexp
	parse   func(capture string, rec *record.RawRecord)
}

var cardMatchers = []fieldMatcher{
	{
		label:   "Rating",
		pattern: regexp.MustCompile(`([\d.]+)\s*/\s*5`),
		parse: func(capture string, rec *record.RawRecord) {
			v, err := strconv.ParseFloat(capture, 64)
			if err != nil {
				return
			}
			rec.Rating = record.String(strconv.FormatFloat(v, 'f', -1, 64))
		},
	},
	{
		label:   "Colors",
		pattern: regexp.MustCompile(`(\d+)`),
		parse: func(capture string, rec *record.RawRecord) {
			n, err := strconv.Atoi(capture)
			if err != nil {
				return
			}
			rec.Colors = record.Int(n)
		},
	},
	{
		label:   "Size",
		pattern: regexp.MustCompile(`Size:\s*([A-Za-z0-9]+)`),
		parse: func(capture string, rec *record.RawRecord) {
			rec.Size = record.String(capture)
		},
	},
	{
		label:   "Gender",
		pattern: regexp.MustCompile(`Gender:\s*([A-Za-z]+)`),
		parse: func(capture string, rec *record.RawRecord) {
			rec.Gender = record.String(capture)
		},
	},
}

// applyMatchers fills rec from lines. Each matcher only looks at the first
// line carrying its label.
func applyMatchers(matchers []fieldMatcher, lines []string, rec *record.RawRecord) {
	claimed := make([]bool, len(matchers))
	for _, line := range lines {
		for i, m := range matchers {
			if !strings.Contains(line, m.label) {
				continue
			}
			if !claimed[i] {
				claimed[i] = true
				if sub := m.pattern.FindStringSubmatch(line); len(sub) > 1 {
					m.parse(sub[1], rec)
				}
			}
			break
		}
	}
}
