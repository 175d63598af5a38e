// Package htmlsanitize strips markup from free-text fields (team names,
// opponents, venues, display names) before they are stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText removes every tag, drops script and style bodies, and returns
// the remaining text unescaped and trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// HasMarkup reports whether s would be altered by PlainText beyond
// trimming.
func HasMarkup(s string) bool {
	return PlainText(s) != strings.TrimSpace(s)
}
