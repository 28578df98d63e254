package domain

import "strings"

// NormalizeTitle trims leading/trailing whitespace and collapses internal
// whitespace runs. It is used for activity title normalization.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeCategory lower-cases and trims a free-form category tag so that
// "Food", " food " and "FOOD" key the same defaults.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
