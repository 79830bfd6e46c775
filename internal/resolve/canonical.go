package resolve

import "regexp"

// canonicalIDPattern matches Linear's backend identifiers: 8-4-4-4-12 hex groups.
var canonicalIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsCanonicalID reports whether s already is a backend identifier.
// Every resolve operation checks this first and returns such input unchanged.
func IsCanonicalID(s string) bool {
	return canonicalIDPattern.MatchString(s)
}
