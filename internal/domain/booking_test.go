package domain

import "testing"

func TestValidTransition(t *testing.T) {
	cases := []struct {
		action string
		from   BookingStatus
		valid  bool
	}{
		{"accept", BookingStatusRequested, true},
		{"accept", BookingStatusAssigned, false},
		{"accept", BookingStatusInProgress, false},
		{"start", BookingStatusAssigned, true},
		{"start", BookingStatusRequested, false},
		{"start", BookingStatusInProgress, false},
		{"complete", BookingStatusInProgress, true},
		{"complete", BookingStatusAssigned, false},
		{"complete", BookingStatusCompleted, false},
		{"terminate_early", BookingStatusInProgress, true},
		{"terminate_early", BookingStatusAssigned, false},
		{"cancel", BookingStatusRequested, true},
		{"cancel", BookingStatusAssigned, true},
		{"cancel", BookingStatusInProgress, false},
		{"cancel", BookingStatusCompleted, false},
		{"cancel", BookingStatusCancelled, false},
		{"unknown", BookingStatusRequested, false},
	}

	for _, tt := range cases {
		if got := ValidTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestCanCancel(t *testing.T) {
	cases := []struct {
		status BookingStatus
		load   int
		want   bool
	}{
		{BookingStatusRequested, 0, true},
		{BookingStatusAssigned, 0, true},
		{BookingStatusRequested, 1, false},
		{BookingStatusAssigned, 2, false},
		{BookingStatusInProgress, 0, false},
		{BookingStatusInProgress, 3, false},
		{BookingStatusCompleted, 0, false},
		{BookingStatusCancelled, 0, false},
	}

	for _, tt := range cases {
		if got := CanCancel(tt.status, tt.load); got != tt.want {
			t.Fatalf("CanCancel(%q, %d)=%v, want %v", tt.status, tt.load, got, tt.want)
		}
	}
}
