package utils

import (
	"strconv"
	"strings"
)

// ParseMoney parses currency-like strings (e.g. "$123,456") into an integer
// dollar amount. Empty or unparseable input yields 0 so downstream bucketing
// stays total.
func ParseMoney(value string) int64 {
	s := strings.TrimSpace(value)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}
