package inventory

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestPending, RequestApproved, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, false},
		{RequestApproved, RequestRejected, false},
		{RequestApproved, RequestPending, false},
		{RequestRejected, RequestApproved, false},
		{RequestRejected, RequestPending, false},
		{"bogus", RequestApproved, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
