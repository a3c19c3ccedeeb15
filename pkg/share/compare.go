package share

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equateEmpty treats nil and empty lists as equal; the appliance returns []
// where a freshly built share may hold nil.
var equateEmpty = cmpopts.EquateEmpty()

// Equal reports whether a and b agree on every settable field. ID and Locked
// are ignored.
func Equal(a, b *Share) bool {
	return cmp.Equal(a.Request(), b.Request(), equateEmpty)
}

// Diff renders the settable-field differences from actual to desired, or ""
// when they are equal.
func Diff(actual, desired *Share) string {
	return cmp.Diff(actual.Request(), desired.Request(), equateEmpty)
}
