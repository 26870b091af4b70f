package orders

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusPreparing, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusReady, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusCompleted, true},
		{StatusReady, StatusCancelled, true},

		{StatusPending, StatusCompleted, false}, // no skipping to terminal
		{StatusReady, StatusPending, false},     // no moving backwards
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
		{"bogus", StatusReady, false},
	}

	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		if !Terminal(terminal) {
			t.Errorf("Terminal(%q) = false", terminal)
		}
		for _, to := range []string{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled} {
			if CanTransition(terminal, to) {
				t.Errorf("terminal status %q must reject transition to %q", terminal, to)
			}
		}
	}
}

func TestKnownStatus(t *testing.T) {
	if !KnownStatus(StatusPreparing) {
		t.Fatal("preparing should be known")
	}
	if KnownStatus("shipped") {
		t.Fatal("shipped is not part of this lifecycle")
	}
}
