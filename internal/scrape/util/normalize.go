package util

import "strings"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// Ellipsis marks a description cut by Truncate.
const Ellipsis = "…"

// Truncate keeps the first max runes of s and appends Ellipsis when
// anything was cut. Text of max runes or fewer is returned unchanged.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + Ellipsis
}
