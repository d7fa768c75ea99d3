package domain

// Transition validates a clock state change and returns the new state.
// The caller supplies the observed current state; a disallowed move returns
// a *StateError and leaves the caller's state untouched.
func Transition(from, to ClockState) (ClockState, error) {
	if !isAllowedTransition(from, to) {
		return from, &StateError{From: from, To: to}
	}
	return to, nil
}

func isAllowedTransition(from, to ClockState) bool {
	switch from {
	case StateIdle:
		return to == StateClockedIn
	case StateClockedIn:
		return to == StatePendingNote || to == StateIdle
	case StatePendingNote:
		return to == StateIdle
	default:
		return false
	}
}
