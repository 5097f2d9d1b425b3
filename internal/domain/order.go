package domain

import "time"

// LineItem is one cart line captured at checkout. SelectedOptions maps an
// option key from the menu item's schema to the value the customer chose.
type LineItem struct {
	Name            string            `json:"name"`
	UnitPrice       float64           `json:"unitPrice"`
	SelectedOptions map[string]string `json:"selectedOptions"`
}

type Order struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	CustomerName  string     `json:"customerName"`
	Items         []LineItem `json:"items"`
	PickupTime    string     `json:"pickupTime"`
	PaymentAmount float64    `json:"paymentAmount"`
	Status        string     `json:"status"`
	PaymentStatus string     `json:"paymentStatus"`
	// CreatedAt is assigned server-side. The zero value means the server has
	// not stamped the document yet; consumers must sort it as the earliest
	// possible instant, never as "now".
	CreatedAt time.Time `json:"createdAt"`
}

const (
	OrderStatusWaitingForPayment = "WaitingForPaymentConfirmation"
	OrderStatusPending           = "Pending"
	OrderStatusPreparing         = "Preparing"
	OrderStatusReady             = "Ready"
	OrderStatusCompleted         = "Completed"
	OrderStatusCancelled         = "Cancelled"
)

const (
	PaymentStatusAwaiting  = "AwaitingConfirmation"
	PaymentStatusConfirmed = "Confirmed"
)

// statusRank is the display priority used by the staff queue. It orders the
// active statuses only and is unrelated to transition legality.
var statusRank = map[string]int{
	OrderStatusWaitingForPayment: 0,
	OrderStatusPending:           1,
	OrderStatusPreparing:         2,
	OrderStatusReady:             3,
}

// StatusRank returns the queue display priority of status and whether the
// status participates in the active queue at all.
func StatusRank(status string) (int, bool) {
	rank, ok := statusRank[status]
	return rank, ok
}

// IsActiveStatus reports whether an order in this status belongs on either
// live view. Completed and Cancelled orders are history.
func IsActiveStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

func (o Order) IsActive() bool {
	return IsActiveStatus(o.Status)
}
