package service

import (
	"regexp"
	"strings"
)

// identifierPattern matches 25.11.2022 with an optional numeric part suffix
// such as 25.11.2022.1.
var identifierPattern = regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}(\.\d+)?$`)

// IsValidIdentifier reports whether s, once trimmed, is a video identifier.
func IsValidIdentifier(s string) bool {
	return identifierPattern.MatchString(strings.TrimSpace(s))
}
