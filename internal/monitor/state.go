package monitor

// Status is a target's current up/down state. A target starts Unknown and
// leaves it on its first completed check, never to return.
type Status int

const (
	StatusUnknown Status = iota
	StatusUp
	StatusDown
)

func (s Status) String() string {
	switch s {
	case StatusUp:
		return "up"
	case StatusDown:
		return "down"
	default:
		return "unknown"
	}
}

// Action is the notification decision attached to a transition.
type Action int

const (
	ActionNone Action = iota
	ActionAlert
	ActionRecover
)

// Transition maps (previous status, outcome) to the next status and the
// notification due, if any. It is pure: no timestamps, no counters, no
// consecutive-failure window. A single outcome flips status immediately;
// that one-step memory is the whole debounce policy.
//
// The first observation only establishes the baseline: leaving Unknown
// never notifies, in either direction.
func Transition(prev Status, up bool) (Status, Action) {
	next := StatusDown
	if up {
		next = StatusUp
	}

	switch {
	case prev == StatusUnknown:
		return next, ActionNone
	case prev == StatusUp && !up:
		return next, ActionAlert
	case prev == StatusDown && up:
		return next, ActionRecover
	default:
		return next, ActionNone
	}
}
