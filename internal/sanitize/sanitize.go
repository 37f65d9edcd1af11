// Package sanitize holds the input cleaning and validation rules shared by
// the submission endpoints.
package sanitize

import (
	"regexp"
	"strings"
)

// emailPattern matches local@domain.tld with no whitespace or extra '@'.
// It is not an RFC 5322 validator.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// String trims surrounding whitespace and strips '<' and '>'.
// Any non-string value yields "".
func String(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return angleBrackets.Replace(strings.TrimSpace(s))
}

// Email reports whether s has the local@domain.tld shape.
func Email(s string) bool {
	return emailPattern.MatchString(s)
}

// Present reports whether v is a string that is non-empty after sanitizing.
func Present(v any) bool {
	return String(v) != ""
}
