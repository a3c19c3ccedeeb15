// Package progress reports long running steps of a reconciliation run.
//
// A Reporter starts one Operation per step. The operation can change its label
// while it runs and must end with exactly one of Succeed or Fail.
package progress

// Reporter starts tracked operations.
type Reporter interface {
	Start(label string) Operation
}

// Operation is one tracked step.
type Operation interface {
	Update(label string)
	Succeed(msg string)
	Fail(msg string)
}

// Nop returns a Reporter that discards everything.
func Nop() Reporter { return nopReporter{} }

type nopReporter struct{}

func (nopReporter) Start(string) Operation { return nopOperation{} }

type nopOperation struct{}

func (nopOperation) Update(string)  {}
func (nopOperation) Succeed(string) {}
func (nopOperation) Fail(string)    {}

// Track runs fn under an operation labelled label. The operation succeeds with
// done when fn returns nil and fails with the error text otherwise.
func Track(r Reporter, label, done string, fn func(op Operation) error) error {
	if r == nil {
		r = Nop()
	}
	op := r.Start(label)
	if err := fn(op); err != nil {
		op.Fail(err.Error())
		return err
	}
	op.Succeed(done)
	return nil
}
