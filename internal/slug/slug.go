// Package slug derives url-safe handles from book titles.
package slug

import (
	"regexp"
	"strings"
)

// Fallback is the handle used when a title has no usable characters.
const Fallback = "untitled"

var (
	nonAlnum    = regexp.MustCompile(`[^a-z0-9]+`)
	hyphenRuns  = regexp.MustCompile(`-{2,}`)
	apostrophes = strings.NewReplacer("'", "")
)

// Make lowercases the title, drops apostrophes and joins the remaining
// alphanumeric runs with single hyphens. Handles are not unique; two titles
// may share one.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = apostrophes.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}
