// Package colour validates AI-supplied colour codes and picks readable text colours.
package colour

import "regexp"

var hexExpr = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsValid reports whether token is exactly '#' followed by six hex digits.
// Shorthand forms and surrounding whitespace are rejected.
func IsValid(token string) bool {
	return hexExpr.MatchString(token)
}
