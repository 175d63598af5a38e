// Package normalize canonicalizes user input before validation and storage.
package normalize

import (
	"strings"

	"github.com/dalemusser/teamstats/internal/domain/models"
)

// Email lowercases and trims an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses runs of inner whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role lowercases and trims a membership role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// WorkflowStatus lowercases and trims a game status. "in progress" and
// "in-progress" are accepted for in_progress.
func WorkflowStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return s
}

// Position maps any casing of a roster position to its canonical form.
// Unknown values are returned trimmed so validation can reject them.
func Position(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "forward", "f":
		return models.PositionForward
	case "defense", "defence", "d":
		return models.PositionDefense
	case "goalie", "g":
		return models.PositionGoalie
	}
	return s
}

// QueryParam trims a query string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Season trims a season label; "all" (any case) means no filter and
// returns "".
func Season(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}

// Code uppercases and trims a join or invite code.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
