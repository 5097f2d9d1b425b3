package lifecycle

import "brewline/internal/domain"

// Edge is one legal status transition.
type Edge struct {
	From string
	To   string
}

// Edges is the whole transition rule table. It is the single representation
// of lifecycle legality: the server-side transition authority validates
// against it and staff clients derive their offered actions from it.
var Edges = []Edge{
	{domain.OrderStatusWaitingForPayment, domain.OrderStatusPending},
	{domain.OrderStatusPending, domain.OrderStatusPreparing},
	{domain.OrderStatusPreparing, domain.OrderStatusReady},
	{domain.OrderStatusReady, domain.OrderStatusCompleted},
	{domain.OrderStatusWaitingForPayment, domain.OrderStatusCancelled},
	{domain.OrderStatusPending, domain.OrderStatusCancelled},
	{domain.OrderStatusPreparing, domain.OrderStatusCancelled},
	{domain.OrderStatusReady, domain.OrderStatusCancelled},
}

// CanTransition reports whether from→to is an edge of the rule table.
func CanTransition(from, to string) bool {
	for _, e := range Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// NextInChain returns the forward-chain successor of from, the status a staff
// client offers as the order's next step. Cancellation is out of band and
// never the offered step.
func NextInChain(from string) (string, bool) {
	for _, e := range Edges {
		if e.From == from && e.To != domain.OrderStatusCancelled {
			return e.To, true
		}
	}
	return "", false
}

// IsTerminal reports whether status has no outgoing edges.
func IsTerminal(status string) bool {
	for _, e := range Edges {
		if e.From == status {
			return false
		}
	}
	return true
}

// ConfirmsPayment reports whether the from→to transition is the one allowed
// to flip paymentStatus to Confirmed. Exactly one edge qualifies: staff
// approving an out-of-band payment moves WaitingForPaymentConfirmation to
// Pending.
func ConfirmsPayment(from, to string) bool {
	return from == domain.OrderStatusWaitingForPayment && to == domain.OrderStatusPending
}
