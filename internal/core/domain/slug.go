package domain

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// Slugify lowercases s, collapses every run of non-alphanumeric characters
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	return strings.Trim(nonAlnumRun.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// StoreSlug derives a storefront slug: lowercase, whitespace runs become a
// single hyphen. Other characters are kept as typed.
func StoreSlug(storeName string) string {
	return spaceRun.ReplaceAllString(strings.ToLower(storeName), "-")
}
