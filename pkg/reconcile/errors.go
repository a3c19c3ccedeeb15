package reconcile

import "errors"

var (
	// ErrDeclined is returned when the operator refuses a mandatory stage.
	ErrDeclined = errors.New("operation declined by operator")

	// ErrInconsistentState signals a bug: the plan no longer matches the
	// share snapshot it was built from.
	ErrInconsistentState = errors.New("inconsistent reconciliation state")
)
