package catalog

import "strings"

// Normalize case-folds s and joins its whitespace-separated words with
// hyphens, so "Still  life" and "still-life" match. Normalize(Normalize(s))
// equals Normalize(s).
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
