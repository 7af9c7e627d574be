package billing

import (
	"testing"
	"time"
)

func TestSubscriptionActive_DenylistSemantics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   bool
	}{
		{StatusActive, true},
		{StatusTrialing, true},
		{StatusPastDue, true},
		{StatusCanceled, false},
		{StatusUnpaid, false},
		// Unknown provider statuses must fail open.
		{Status("incomplete"), true},
		{Status("paused"), true},
		{Status("some_future_status"), true},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			t.Parallel()

			sub := Subscription{TeamID: "t1", ExternalID: "sub_1", Status: tc.status}
			if got := sub.Active(); got != tc.want {
				t.Fatalf("Active() for %q: expected %v, got %v", tc.status, tc.want, got)
			}
		})
	}
}

func TestActiveSubscription_NilIsInactive(t *testing.T) {
	t.Parallel()

	if ActiveSubscription(nil) {
		t.Fatal("nil subscription must not pass the gate")
	}

	sub := &Subscription{
		TeamID:     "t1",
		ExternalID: "sub_1",
		Status:     StatusActive,
		PeriodEnd:  time.Now().Add(24 * time.Hour),
	}
	if !ActiveSubscription(sub) {
		t.Fatal("active subscription must pass the gate")
	}
}
