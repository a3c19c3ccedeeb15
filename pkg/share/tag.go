package share

import "strings"

// IsAutoCreated reports whether comment ends with AutoCreatedSuffix.
func IsAutoCreated(comment string) bool {
	return comment != "" && strings.HasSuffix(comment, AutoCreatedSuffix)
}

// TagAsAutoCreated appends the ownership marker to base. Callers tag a
// synthesized comment exactly once; tagging twice yields the marker twice.
func TagAsAutoCreated(base string) string {
	if base == "" {
		return AutoCreatedSuffix
	}
	return base + " " + AutoCreatedSuffix
}
