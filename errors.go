package kin

import "fmt"

// ValidationError reports a property value that violates a static
// precondition. The offending value is never stored; the caller corrects
// the input and retries.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("kin: %s %s", e.Field, e.Msg)
}

// InvalidStateError reports an operation attempted while its structural
// precondition does not hold: mutating a bound mid-step, querying slack
// with a missing body, asking for a reaction on an unlinked body.
type InvalidStateError struct {
	Op  string
	Msg string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("kin: %s: %s", e.Op, e.Msg)
}
