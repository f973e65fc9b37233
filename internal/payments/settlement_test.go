package payments

import (
	"testing"

	"github.com/wolfman30/booking-gateway/internal/appointments"
)

func TestResolveTransitions(t *testing.T) {
	tests := []struct {
		event          string
		depositStatus  string
		statusOverride string
	}{
		{EventPaymentPending, appointments.DepositPending, ""},
		{EventPaymentPaid, appointments.DepositPaid, appointments.StatusConfirmed},
		{EventPaymentFailed, appointments.DepositFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			tr, ok := Resolve(tt.event)
			if !ok {
				t.Fatalf("Resolve(%q) not found", tt.event)
			}
			if tr.DepositStatus != tt.depositStatus {
				t.Fatalf("deposit status = %q, want %q", tr.DepositStatus, tt.depositStatus)
			}
			if tr.StatusOverride != tt.statusOverride {
				t.Fatalf("status override = %q, want %q", tr.StatusOverride, tt.statusOverride)
			}
		})
	}
}

func TestResolveUnknownEvent(t *testing.T) {
	if _, ok := Resolve("payment_refunded"); ok {
		t.Fatalf("refunds are not reachable via the webhook")
	}
	if _, ok := Resolve(""); ok {
		t.Fatalf("empty event must not resolve")
	}
}
