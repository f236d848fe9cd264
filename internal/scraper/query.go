package scraper

import (
	"strconv"
	"strings"
)

// ParseQuery splits a free-text search query into a topic and a minimum
// price. The trailing whitespace-delimited token is the minimum price if and
// only if it is a non-negative integer literal; otherwise the whole string
// is the topic and the minimum price is 0.
func ParseQuery(query string) (topic string, minPrice int) {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return strings.TrimSpace(query), 0
	}

	last := parts[len(parts)-1]
	if isDigits(last) {
		n, err := strconv.Atoi(last)
		if err == nil {
			return strings.Join(parts[:len(parts)-1], " "), n
		}
	}
	return strings.Join(parts, " "), 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
