package utils

import (
	"regexp"
	"strings"
)

var (
	slugStripPattern = regexp.MustCompile(`[^a-z0-9_ ]+`)
	slugSpacePattern = regexp.MustCompile(` +`)
)

// Slugify derives a URL-safe identifier from a display name.
// "Joe's Café!!" becomes "joes-caf": lowercased, special characters
// stripped, runs of spaces collapsed into single hyphens.
func Slugify(text string) string {
	slug := strings.ToLower(text)
	slug = slugStripPattern.ReplaceAllString(slug, "")
	slug = strings.TrimSpace(slug)
	slug = slugSpacePattern.ReplaceAllString(slug, "-")
	return slug
}
