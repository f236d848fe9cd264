package job

import (
	"sort"
	"strconv"
	"strings"
)

// ParseBudget normalizes a raw budget string to a number for sort ordering.
// Currency symbols and thousands separators are stripped; for a range like
// "100-200" the lower bound is taken. Returns 0 when the remainder does not
// parse, which ranks the item lowest.
func ParseBudget(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	// Range: take the lower bound. Split on the first dash that separates
	// two values (a leading dash is not a range).
	if i := strings.IndexAny(s[1:], "-–"); i >= 0 {
		s = s[:i+1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '$', r == '€', r == '£':
			// separators and currency symbols
		case r == '+', r == '/':
			// "500+" or "$30/hr": keep what was collected so far
		default:
			if b.Len() > 0 {
				// trailing units like "hr" or "k"
				goto parse
			}
		}
	}

parse:
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// SortByBudget orders jobs by parsed budget, highest first. Jobs whose
// budget does not parse sort to the bottom.
func SortByBudget(jobs []Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return ParseBudget(jobs[i].Budget) > ParseBudget(jobs[j].Budget)
	})
}
