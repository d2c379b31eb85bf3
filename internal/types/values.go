package types

import (
	"strconv"
	"strings"
)

// ParseNumberPair parses "n" or "n/total" as found in track and disc tags.
// Unparseable parts are returned as 0.
func ParseNumberPair(s string) (n, total int) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0
	}
	first, second, hasTotal := strings.Cut(s, "/")
	n, _ = strconv.Atoi(strings.TrimSpace(first))
	if hasTotal {
		total, _ = strconv.Atoi(strings.TrimSpace(second))
	}
	return n, total
}

// ParseYear extracts a four digit year from the start of a date string
// ("2004", "2004-05-17", "2004-05-17T10:00:00"). Returns 0 when absent.
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}
