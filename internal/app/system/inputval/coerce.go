package inputval

import (
	"strconv"
	"strings"
)

// Count parses a stat form value. Blank, non-numeric and negative input
// all coerce to 0 so a stat cell can never be stored negative.
func Count(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Int parses s, returning def when s is blank or not an integer.
func Int(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Bool parses common form truthy values ("true", "1", "on", "yes").
func Bool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	}
	return false
}
