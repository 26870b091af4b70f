package orders

// transitions lists the legal next statuses for each status. Terminal states
// (completed, cancelled) have no entries and reject every update.
var transitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusPreparing, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusReady, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted, StatusCancelled},
}

// KnownStatus reports whether s is a recognized order status.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status.
func Terminal(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether an order may move from -> to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
