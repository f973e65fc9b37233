package payments

import "github.com/wolfman30/booking-gateway/internal/appointments"

// Payment provider event kinds delivered to the webhook.
const (
	EventPaymentPending = "payment_pending"
	EventPaymentPaid    = "payment_paid"
	EventPaymentFailed  = "payment_failed"
)

// Transition is the settlement outcome of a payment event: the deposit
// status to write, plus an optional appointment status override.
type Transition struct {
	DepositStatus  string
	StatusOverride string
}

// transitions is the finite event mapping. A paid deposit also confirms the
// appointment; nothing else touches the scheduling status. The refunded
// state is reachable only through the direct deposit edit, never from here.
var transitions = map[string]Transition{
	EventPaymentPending: {DepositStatus: appointments.DepositPending},
	EventPaymentPaid:    {DepositStatus: appointments.DepositPaid, StatusOverride: appointments.StatusConfirmed},
	EventPaymentFailed:  {DepositStatus: appointments.DepositFailed},
}

// Resolve maps an event kind to its settlement transition.
func Resolve(event string) (Transition, bool) {
	t, ok := transitions[event]
	return t, ok
}
