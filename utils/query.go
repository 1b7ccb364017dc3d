package utils

import (
	"strconv"
	"strings"
)

// ParseIntDefault parses a non-negative integer query value, falling back
// to def when s is empty or invalid.
func ParseIntDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v >= 0 {
		return v
	}
	return def
}
