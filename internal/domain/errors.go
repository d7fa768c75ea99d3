package domain

import "fmt"

// ValidationError reports input that cannot be accepted as given.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StateError reports a clock transition attempted from the wrong state.
type StateError struct {
	From ClockState
	To   ClockState
}

func (e *StateError) Error() string {
	return fmt.Sprintf("disallowed clock transition %s -> %s", e.From, e.To)
}
